package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// TaskRepository persists tasks.
type TaskRepository interface {
	List(ctx context.Context, spec scope.Spec) ([]models.Task, error)
	FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Task, error)
	Delete(ctx context.Context, id uint) error
	ListTouchedSince(ctx context.Context, since time.Time) ([]models.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository constructs the task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("AssignedBy").
		Preload("Project")
}

func (r *taskRepository) List(ctx context.Context, spec scope.Spec) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if spec.Empty {
		return tasks, nil
	}
	err := r.withRelations(ctx).
		Scopes(TaskScope(spec)).
		Order("tasks.created_at DESC").
		Order("tasks.id DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.Task, error) {
	if spec.Empty {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	var task models.Task
	err := r.withRelations(ctx).
		Scopes(TaskScope(spec)).
		Where("tasks.id = ?", id).
		First(&task).Error
	return task, err
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Omit("Project", "AssignedTo", "AssignedBy").Create(task).Error; err != nil {
		return err
	}
	return r.withRelations(ctx).First(task, task.ID).Error
}

func (r *taskRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Task, error) {
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Task{}, err
	}
	var task models.Task
	err := r.withRelations(ctx).First(&task, id).Error
	return task, err
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) ListTouchedSince(ctx context.Context, since time.Time) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := r.withRelations(ctx).
		Where("created_at >= ? OR updated_at >= ?", since.UTC(), since.UTC()).
		Find(&tasks).Error
	return tasks, err
}
