package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
)

// ActivityLogFilter narrows activity log queries.
type ActivityLogFilter struct {
	Page        int
	PageSize    int
	UserID      *uint
	Action      string
	SubjectKind models.SubjectKind
}

// ActivityLogRepository appends and reads the activity log. Entries are never updated or deleted.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.Activity) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.Activity, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.Activity) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if filter.SubjectKind != "" {
		query = query.Where("subject_kind = ?", filter.SubjectKind)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]models.Activity, 0)
	err := query.
		Preload("User").
		Scopes(Paginate(filter.Page, filter.PageSize)).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
