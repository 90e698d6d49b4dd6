package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/observability"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// ActivityFeedService derives the recent-activity feed from the current entity state.
type ActivityFeedService interface {
	Recent(ctx context.Context, requester scope.Requester, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error)
}

type activityFeedService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	options  FeedOptions
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewActivityFeedService builds the activity feed service. Zero fields of options fall back
// to DefaultFeedOptions; options.Limit is only used when a request omits its limit.
func NewActivityFeedService(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, options FeedOptions, logger zerolog.Logger) ActivityFeedService {
	defaults := DefaultFeedOptions()
	if options.Window <= 0 {
		options.Window = defaults.Window
	}
	if options.Recent <= 0 {
		options.Recent = defaults.Recent
	}
	if options.Limit <= 0 {
		options.Limit = defaults.Limit
	}
	return &activityFeedService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		options:  options,
		logger:   logger.With().Str("component", "activity_feed_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/teamboard-api/internal/service/activity_feed"),
		now:      time.Now,
	}
}

// Recent returns the newest events across tasks, projects and users. The feed is not scoped
// by role; any authenticated requester sees the same events. A negative limit is rejected and a
// nil limit uses the configured default.
func (s *activityFeedService) Recent(ctx context.Context, requester scope.Requester, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error) {
	start := time.Now()
	defer func() {
		observability.FeedLatency().Observe(time.Since(start).Seconds())
	}()

	if !requester.Valid() {
		return dto.ActivityFeedResponse{}, ErrForbidden
	}

	opts := s.options
	if req.Limit != nil {
		if *req.Limit < 0 {
			return dto.ActivityFeedResponse{}, fieldError("limit", "Ensure this value is greater than or equal to 0.")
		}
		opts.Limit = *req.Limit
	}

	spanCtx, span := s.tracer.Start(ctx, "activity_feed.build", trace.WithAttributes(
		attribute.Int("feed.limit", opts.Limit),
		attribute.String("feed.requester_role", string(requester.Role)),
	))
	defer span.End()

	now := s.now().UTC()
	candidates, err := s.loadCandidates(spanCtx, now.Add(-opts.Window))
	if err != nil {
		span.RecordError(err)
		observability.FeedRequests().WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("failed to load activity feed candidates")
		return dto.ActivityFeedResponse{}, err
	}

	items := BuildFeed(now, candidates, opts)
	span.SetAttributes(attribute.Int("feed.items", len(items)))
	observability.FeedRequests().WithLabelValues("ok").Inc()

	return dto.ActivityFeedResponse{Items: items}, nil
}

func (s *activityFeedService) loadCandidates(ctx context.Context, since time.Time) (FeedCandidates, error) {
	tasks, err := s.tasks.ListTouchedSince(ctx, since)
	if err != nil {
		return FeedCandidates{}, fmt.Errorf("load tasks: %w", err)
	}
	projects, err := s.projects.ListTouchedSince(ctx, since)
	if err != nil {
		return FeedCandidates{}, fmt.Errorf("load projects: %w", err)
	}
	users, err := s.users.ListJoinedSince(ctx, since)
	if err != nil {
		return FeedCandidates{}, fmt.Errorf("load users: %w", err)
	}
	return FeedCandidates{Tasks: tasks, Projects: projects, Users: users}, nil
}
