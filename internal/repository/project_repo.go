package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// ProjectRepository persists projects.
type ProjectRepository interface {
	List(ctx context.Context, spec scope.Spec) ([]models.Project, error)
	ListWithTasks(ctx context.Context, spec scope.Spec) ([]models.Project, error)
	Count(ctx context.Context, spec scope.Spec) (int64, error)
	FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Project, error)
	Delete(ctx context.Context, id uint) error
	ListTouchedSince(ctx context.Context, since time.Time) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository constructs the project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("CreatedBy").Preload("AssignedTo")
}

func (r *projectRepository) List(ctx context.Context, spec scope.Spec) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	if spec.Empty {
		return projects, nil
	}
	err := r.base(ctx).
		Scopes(ProjectScope(spec)).
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListWithTasks(ctx context.Context, spec scope.Spec) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	if spec.Empty {
		return projects, nil
	}
	err := r.base(ctx).
		Preload("Tasks").
		Scopes(ProjectScope(spec)).
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Count(ctx context.Context, spec scope.Spec) (int64, error) {
	if spec.Empty {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Scopes(ProjectScope(spec)).Count(&count).Error
	return count, err
}

func (r *projectRepository) FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.Project, error) {
	if spec.Empty {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	var project models.Project
	err := r.base(ctx).
		Preload("Tasks").
		Scopes(ProjectScope(spec)).
		Where("projects.id = ?", id).
		First(&project).Error
	return project, err
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Omit("CreatedBy", "AssignedTo", "Tasks").Create(project).Error; err != nil {
		return err
	}
	return r.base(ctx).First(project, project.ID).Error
}

func (r *projectRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Project, error) {
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Project{}, err
	}
	var project models.Project
	err := r.base(ctx).First(&project, id).Error
	return project, err
}

// Delete removes a project and detaches its tasks, which survive without a project.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *projectRepository) ListTouchedSince(ctx context.Context, since time.Time) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("created_at >= ? OR updated_at >= ?", since.UTC(), since.UTC()).
		Find(&projects).Error
	return projects, err
}
