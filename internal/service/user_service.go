package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// UserService manages accounts within the requester's user scope.
type UserService interface {
	List(ctx context.Context, requester scope.Requester, params scope.Params) ([]dto.UserResponse, error)
	Get(ctx context.Context, requester scope.Requester, id uint) (dto.UserResponse, error)
	Create(ctx context.Context, requester scope.Requester, req dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, requester scope.Requester, id uint, req dto.UserUpdateRequest) (dto.UserResponse, error)
	Deactivate(ctx context.Context, requester scope.Requester, id uint) error
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		repo:     repo,
		validate: validate,
		activity: activity,
		logger:   logger.With().Str("component", "user_service").Logger(),
	}
}

// List returns the visible users, newest first. For managers this is every employee.
func (s *userService) List(ctx context.Context, requester scope.Requester, params scope.Params) ([]dto.UserResponse, error) {
	if !scope.CanRead(scope.KindUser, requester) {
		return nil, ErrForbidden
	}
	users, err := s.repo.List(ctx, scope.Resolve(scope.KindUser, requester, params))
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponses(users), nil
}

func (s *userService) Get(ctx context.Context, requester scope.Requester, id uint) (dto.UserResponse, error) {
	if !scope.CanRead(scope.KindUser, requester) {
		return dto.UserResponse{}, ErrForbidden
	}
	user, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindUser, requester, scope.Params{}), id)
	if err != nil {
		return dto.UserResponse{}, notFound(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Create(ctx context.Context, requester scope.Requester, req dto.UserCreateRequest) (dto.UserResponse, error) {
	if !scope.CanCreate(scope.KindUser, requester) {
		return dto.UserResponse{}, ErrForbidden
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = cleanText(req.FullName)
	if err := validateStruct(s.validate, req); err != nil {
		return dto.UserResponse{}, err
	}
	if err := ensureUniqueAccount(ctx, s.repo, req.Username, req.Email); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         models.ParseRole(req.Role),
		IsActive:     true,
		PasswordHash: hash,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create user")
		return dto.UserResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "user.created",
		Subject: models.UserSubject{UserID: user.ID},
		Details: map[string]interface{}{"username": user.Username, "role": string(user.Role)},
	})

	return dto.NewUserResponse(user), nil
}

// Update applies a partial update. Existing project and task assignments are not revalidated
// when the role changes.
func (s *userService) Update(ctx context.Context, requester scope.Requester, id uint, req dto.UserUpdateRequest) (dto.UserResponse, error) {
	if !scope.CanUpdate(scope.KindUser, requester) {
		return dto.UserResponse{}, ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindUser, requester, scope.Params{}), id)
	if err != nil {
		return dto.UserResponse{}, notFound(err)
	}

	if err := validateStruct(s.validate, req); err != nil {
		return dto.UserResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, existing.Email) {
			if _, taken, err := s.repo.ExistsByUsernameOrEmail(ctx, "", email); err != nil {
				return dto.UserResponse{}, err
			} else if taken {
				return dto.UserResponse{}, fieldError("email", "A user with that email already exists.")
			}
		}
		updates["email"] = email
	}
	if req.FullName != nil {
		updates["full_name"] = cleanText(*req.FullName)
	}
	if req.Role != nil {
		updates["role"] = models.ParseRole(*req.Role)
	}
	if req.IsActive != nil {
		if !*req.IsActive && existing.ID == requester.ID {
			return dto.UserResponse{}, fieldError("is_active", "You cannot deactivate your own account.")
		}
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		if req.ConfirmPassword == nil || *req.ConfirmPassword != *req.Password {
			return dto.UserResponse{}, fieldError("password", "Password fields didn't match.")
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return dto.UserResponse{}, err
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return dto.NewUserResponse(existing), nil
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", id).Msg("failed to update user")
		return dto.UserResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "user.updated",
		Subject: models.UserSubject{UserID: user.ID},
		Details: map[string]interface{}{"fields": changedFields(updates)},
	})

	return dto.NewUserResponse(user), nil
}

// Deactivate marks an account inactive. Accounts are never removed.
func (s *userService) Deactivate(ctx context.Context, requester scope.Requester, id uint) error {
	if !scope.CanDelete(scope.KindUser, requester) {
		return ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindUser, requester, scope.Params{}), id)
	if err != nil {
		return notFound(err)
	}
	if existing.ID == requester.ID {
		return fieldError("is_active", "You cannot deactivate your own account.")
	}

	if _, err := s.repo.Update(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		s.logger.Error().Err(err).Uint("user_id", id).Msg("failed to deactivate user")
		return err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "user.deactivated",
		Subject: models.UserSubject{UserID: id},
		Details: map[string]interface{}{"username": existing.Username},
	})
	return nil
}

// BootstrapSupermanager creates an active supermanager without a requester. It backs the
// operator CLI and refuses duplicate usernames or emails like regular account creation.
func BootstrapSupermanager(ctx context.Context, repo repository.UserRepository, validate *validator.Validate, req dto.UserCreateRequest) (dto.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = cleanText(req.FullName)
	req.Role = string(models.RoleSupermanager)
	if err := validateStruct(validate, req); err != nil {
		return dto.UserResponse{}, err
	}
	if err := ensureUniqueAccount(ctx, repo, req.Username, req.Email); err != nil {
		return dto.UserResponse{}, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}
	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         models.RoleSupermanager,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}
