package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// UserRepository persists user accounts.
type UserRepository interface {
	List(ctx context.Context, spec scope.Spec) ([]models.User, error)
	Count(ctx context.Context, spec scope.Spec) (int64, error)
	FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.User, error)
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.User, error)
	ListJoinedSince(ctx context.Context, since time.Time) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context, spec scope.Spec) ([]models.User, error) {
	users := make([]models.User, 0)
	if spec.Empty {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(UserScope(spec)).
		Order("date_joined DESC").
		Order("id DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Count(ctx context.Context, spec scope.Spec) (int64, error) {
	if spec.Empty {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(UserScope(spec)).Count(&count).Error
	return count, err
}

func (r *userRepository) FindInScope(ctx context.Context, spec scope.Spec, id uint) (models.User, error) {
	if spec.Empty {
		return models.User{}, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.WithContext(ctx).Scopes(UserScope(spec)).Where("users.id = ?", id).First(&user).Error
	return user, err
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, err
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, bool, error) {
	var matches []models.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "email").
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
		Find(&matches).Error
	if err != nil {
		return false, false, err
	}
	var usernameTaken, emailTaken bool
	for _, match := range matches {
		if strings.EqualFold(match.Username, username) {
			usernameTaken = true
		}
		if strings.EqualFold(match.Email, email) {
			emailTaken = true
		}
	}
	return usernameTaken, emailTaken, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.User{}, result.Error
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) ListJoinedSince(ctx context.Context, since time.Time) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).
		Where("date_joined >= ?", since.UTC()).
		Order("date_joined DESC").
		Find(&users).Error
	return users, err
}
