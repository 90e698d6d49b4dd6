package repository

import (
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// Paginate applies offset pagination when a positive page size is requested.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page <= 0 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

func matchNothing(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// UserScope translates a user Spec into query conditions.
func UserScope(spec scope.Spec) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if spec.Empty || spec.Kind != scope.KindUser {
			return matchNothing(db)
		}
		if spec.ActiveOnly {
			db = db.Where("users.is_active = ?", true)
		}
		if spec.Role != "" {
			db = db.Where("users.role = ?", spec.Role)
		}
		return db
	}
}

// ProjectScope translates a project Spec into query conditions.
func ProjectScope(spec scope.Spec) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if spec.Empty || spec.Kind != scope.KindProject {
			return matchNothing(db)
		}
		if spec.AssignedToID != nil {
			db = db.Where("projects.assigned_to_id = ?", *spec.AssignedToID)
		}
		return db
	}
}

// TaskScope translates a task Spec into query conditions.
func TaskScope(spec scope.Spec) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if spec.Empty || spec.Kind != scope.KindTask {
			return matchNothing(db)
		}
		if spec.AssignedToID != nil {
			db = db.Where("tasks.assigned_to_id = ?", *spec.AssignedToID)
		}
		if spec.ProjectID != nil {
			db = db.Where("tasks.project_id = ?", *spec.ProjectID)
		}
		if spec.ProjectManagerID != nil {
			managed := db.Session(&gorm.Session{NewDB: true}).
				Model(&models.Project{}).
				Select("id").
				Where("assigned_to_id = ?", *spec.ProjectManagerID)
			db = db.Where("tasks.project_id IN (?)", managed)
		}
		return db
	}
}
