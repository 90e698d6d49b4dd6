package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthService issues tokens and resolves the authenticated requester.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error)
	Me(ctx context.Context, requester scope.Requester) (dto.UserResponse, error)
	Requester(ctx context.Context, userID uint) (scope.Requester, error)
}

type authService struct {
	users    repository.UserRepository
	validate *validator.Validate
	activity ActivityRecorder
	config   AuthConfig
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, config AuthConfig, logger zerolog.Logger) AuthService {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	return &authService{
		users:    users,
		validate: validate,
		activity: activity,
		config:   config,
		logger:   logger.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(s.validate, req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return dto.LoginResponse{}, ErrInactiveAccount
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.TTL)
	token, err := s.signToken(user, issuedAt, expiresAt)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to sign token")
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		User:      dto.NewUserResponse(user),
		Access:    token,
		ExpiresAt: dto.NewDateTime(expiresAt),
	}, nil
}

func (s *authService) signToken(user models.User, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

// Register creates an active employee account for self sign-up.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = cleanText(req.FullName)
	if err := validateStruct(s.validate, req); err != nil {
		return dto.UserResponse{}, err
	}
	if err := ensureUniqueAccount(ctx, s.users, req.Username, req.Email); err != nil {
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
		Role:         models.RoleEmployee,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to register user")
		return dto.UserResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   ActivityActor{ID: user.ID, Role: user.Role},
		Action:  "user.created",
		Subject: models.UserSubject{UserID: user.ID},
		Details: map[string]interface{}{"username": user.Username, "role": string(user.Role), "source": "register"},
	})

	return dto.NewUserResponse(user), nil
}

func (s *authService) Me(ctx context.Context, requester scope.Requester) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, requester.ID)
	if err != nil {
		return dto.UserResponse{}, notFound(err)
	}
	return dto.NewUserResponse(user), nil
}

// Requester loads the current role and active flag, so a token issued before a role change
// or deactivation does not keep its old permissions.
func (s *authService) Requester(ctx context.Context, userID uint) (scope.Requester, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return scope.Requester{}, notFound(err)
	}
	return scope.Requester{ID: user.ID, Role: user.Role, Active: user.IsActive}, nil
}
