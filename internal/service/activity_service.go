package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// ActivityActor is the authenticated user performing a write.
type ActivityActor struct {
	ID   uint
	Role models.Role
}

// ActivityEntry captures the details required to append an activity log row.
type ActivityEntry struct {
	Actor   ActivityActor
	Action  string
	Subject models.Subject
	Details map[string]interface{}
}

// ActivityRecorder appends activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityPublisher exports recorded entries to a message subject. *nats.Conn satisfies it.
type ActivityPublisher interface {
	Publish(subject string, data []byte) error
}

// ActivityService records and lists the persisted activity log.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, requester scope.Requester, req dto.ActivityLogListRequest) (dto.ActivityLogListResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	publisher ActivityPublisher
	subject   string
	logger    zerolog.Logger
}

type activityMessage struct {
	ID        uint                        `json:"id"`
	UserID    uint                        `json:"user_id"`
	UserRole  models.Role                 `json:"user_role"`
	Action    string                      `json:"action"`
	Subject   dto.ActivitySubjectResponse `json:"subject"`
	Details   map[string]interface{}      `json:"details"`
	Timestamp time.Time                   `json:"timestamp"`
}

// NewActivityService constructs the activity log service. publisher may be nil.
func NewActivityService(repo repository.ActivityLogRepository, publisher ActivityPublisher, subject string, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		publisher: publisher,
		subject:   strings.TrimSpace(subject),
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		return fmt.Errorf("action is required")
	}
	if entry.Subject == nil {
		return fmt.Errorf("subject is required")
	}
	if entry.Actor.ID == 0 {
		return fmt.Errorf("actor is required")
	}

	model := models.Activity{
		UserID:  entry.Actor.ID,
		Action:  action,
		Details: sanitizeDetails(entry.Details),
	}
	model.SetSubject(entry.Subject)

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity")
		return err
	}

	s.publish(model, entry.Actor.Role)
	return nil
}

func (s *activityService) publish(model models.Activity, role models.Role) {
	if s.publisher == nil || s.subject == "" {
		return
	}
	payload, err := json.Marshal(activityMessage{
		ID:        model.ID,
		UserID:    model.UserID,
		UserRole:  role,
		Action:    model.Action,
		Subject:   dto.ActivitySubjectResponse{Kind: model.SubjectKind, ID: model.SubjectID},
		Details:   map[string]interface{}(model.Details),
		Timestamp: model.Timestamp,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode activity message")
		return
	}
	if err := s.publisher.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish activity")
	}
}

func (s *activityService) List(ctx context.Context, requester scope.Requester, req dto.ActivityLogListRequest) (dto.ActivityLogListResponse, error) {
	if !scope.CanRead(scope.KindActivity, requester) {
		return dto.ActivityLogListResponse{}, ErrForbidden
	}

	filter := repository.ActivityLogFilter{
		Page:        req.Page,
		PageSize:    req.PageSize,
		Action:      strings.ToLower(strings.TrimSpace(req.Action)),
		SubjectKind: models.SubjectKind(strings.ToLower(strings.TrimSpace(req.Kind))),
	}
	if req.UserID > 0 {
		userID := req.UserID
		filter.UserID = &userID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityLogListResponse{}, err
	}

	items := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityLogResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityLogListResponse{Items: items, Pagination: pagination}, nil
}

func sanitizeDetails(details map[string]interface{}) datatypes.JSONMap {
	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		if text, ok := value.(string); ok {
			sanitized[key] = cleanText(text)
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
