package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/observability"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

// DashboardService produces the per-role dashboard counters and the report payload.
type DashboardService interface {
	Supermanager(ctx context.Context, requester scope.Requester) (dto.SupermanagerStats, error)
	Manager(ctx context.Context, requester scope.Requester) (dto.ManagerStats, error)
	Employee(ctx context.Context, requester scope.Requester) (dto.EmployeeStats, error)
	Report(ctx context.Context, requester scope.Requester, params scope.Params) (dto.ReportResponse, error)
}

type dashboardService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator. Results are cached in redis only when
// cache is non-nil and ttl is positive; otherwise every call reads fresh rows.
func NewDashboardService(users repository.UserRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		users:    users,
		projects: projects,
		tasks:    tasks,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/teamboard-api/internal/service/dashboard"),
		now:      time.Now,
	}
}

// Supermanager counts every user and project; active_projects is the total project count.
func (s *dashboardService) Supermanager(ctx context.Context, requester scope.Requester) (dto.SupermanagerStats, error) {
	if !hasRole(requester, models.RoleSupermanager) {
		return dto.SupermanagerStats{}, ErrForbidden
	}

	return cached(ctx, s, "supermanager", s.cacheKey("supermanager", requester, nil), func(ctx context.Context) (dto.SupermanagerStats, error) {
		users, err := s.users.Count(ctx, scope.Resolve(scope.KindUser, requester, scope.Params{}))
		if err != nil {
			return dto.SupermanagerStats{}, err
		}
		projects, err := s.projects.Count(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}))
		if err != nil {
			return dto.SupermanagerStats{}, err
		}
		tasks, err := s.tasks.List(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}))
		if err != nil {
			return dto.SupermanagerStats{}, err
		}
		counts := Aggregate(tasks, nil, s.now()).Tasks
		return dto.SupermanagerStats{
			TotalUsers:     users,
			ActiveProjects: projects,
			Pending:        counts.Pending,
			InProgress:     counts.InProgress,
			Completed:      counts.Completed,
			Overdue:        counts.Overdue,
		}, nil
	})
}

// Manager counts the requester's projects and their tasks. A project is active while its
// deadline is today or later.
func (s *dashboardService) Manager(ctx context.Context, requester scope.Requester) (dto.ManagerStats, error) {
	if !hasRole(requester, models.RoleManager) {
		return dto.ManagerStats{}, ErrForbidden
	}

	return cached(ctx, s, "manager", s.cacheKey("manager", requester, nil), func(ctx context.Context) (dto.ManagerStats, error) {
		projects, err := s.projects.List(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}))
		if err != nil {
			return dto.ManagerStats{}, err
		}
		tasks, err := s.tasks.List(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}))
		if err != nil {
			return dto.ManagerStats{}, err
		}
		agg := Aggregate(tasks, projects, s.now())
		return dto.ManagerStats{
			TotalProjects:  agg.TotalProjects,
			ActiveProjects: agg.ActiveProjects,
			Pending:        agg.Tasks.Pending,
			InProgress:     agg.Tasks.InProgress,
			Completed:      agg.Tasks.Completed,
			Overdue:        agg.Tasks.Overdue,
		}, nil
	})
}

func (s *dashboardService) Employee(ctx context.Context, requester scope.Requester) (dto.EmployeeStats, error) {
	if !hasRole(requester, models.RoleEmployee) {
		return dto.EmployeeStats{}, ErrForbidden
	}

	return cached(ctx, s, "employee", s.cacheKey("employee", requester, nil), func(ctx context.Context) (dto.EmployeeStats, error) {
		tasks, err := s.tasks.List(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}))
		if err != nil {
			return dto.EmployeeStats{}, err
		}
		return dto.EmployeeStats{TaskCounts: Aggregate(tasks, nil, s.now()).Tasks}, nil
	})
}

// Report aggregates the requester's visible tasks, optionally narrowed to one project.
// Project progress here is not rounded, unlike the manager project list.
func (s *dashboardService) Report(ctx context.Context, requester scope.Requester, params scope.Params) (dto.ReportResponse, error) {
	if !requester.Valid() {
		return dto.ReportResponse{}, ErrForbidden
	}

	attrs := []attribute.KeyValue{attribute.String("report.requester_role", string(requester.Role))}
	if params.ProjectID != nil {
		attrs = append(attrs, attribute.Int64("report.project_id", int64(*params.ProjectID)))
	}
	spanCtx, span := s.tracer.Start(ctx, "dashboard.report", trace.WithAttributes(attrs...))
	defer span.End()

	report, err := cached(spanCtx, s, "report", s.cacheKey("report", requester, params.ProjectID), func(ctx context.Context) (dto.ReportResponse, error) {
		projects, err := s.projects.List(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}))
		if err != nil {
			return dto.ReportResponse{}, err
		}
		tasks, err := s.tasks.List(ctx, scope.Resolve(scope.KindTask, requester, params))
		if err != nil {
			return dto.ReportResponse{}, err
		}
		return buildReport(tasks, projects, params.ProjectID, s.now()), nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

func buildReport(tasks []models.Task, projects []models.Project, projectID *uint, now time.Time) dto.ReportResponse {
	options := make([]dto.ProjectOption, 0, len(projects))
	for _, project := range projects {
		options = append(options, dto.ProjectOption{ID: project.ID, Name: project.Name})
	}

	progressProjects := projects
	if projectID != nil {
		progressProjects = make([]models.Project, 0, 1)
		for _, project := range projects {
			if project.ID == *projectID {
				progressProjects = append(progressProjects, project)
			}
		}
	}

	agg := Aggregate(tasks, progressProjects, now)
	return dto.ReportResponse{
		Stats:              agg.Tasks,
		StatusDistribution: agg.StatusDistribution(),
		ProjectsProgress:   agg.ProjectsProgress(),
		AllProjects:        options,
	}
}

// cached serves view from redis when a fresh copy exists and otherwise runs build, storing
// the result for cacheTTL.
func cached[T any](ctx context.Context, s *dashboardService, view, key string, build func(context.Context) (T, error)) (T, error) {
	useCache := s.cache != nil && s.cacheTTL > 0
	if useCache {
		if payload, err := s.cache.Get(ctx, key).Result(); err == nil {
			var value T
			if err := json.Unmarshal([]byte(payload), &value); err == nil {
				observability.DashboardRequests().WithLabelValues(view, "hit").Inc()
				return value, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Str("view", view).Msg("failed to read dashboard cache")
		}
	}

	value, err := build(ctx)
	if err != nil {
		observability.DashboardRequests().WithLabelValues(view, "error").Inc()
		s.logger.Error().Err(err).Str("view", view).Msg("failed to aggregate dashboard")
		return value, err
	}

	if useCache {
		if payload, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("view", view).Msg("failed to store dashboard cache")
			}
		}
	}
	observability.DashboardRequests().WithLabelValues(view, "miss").Inc()
	return value, nil
}

func (s *dashboardService) cacheKey(view string, requester scope.Requester, projectID *uint) string {
	project := "all"
	if projectID != nil {
		project = fmt.Sprintf("%d", *projectID)
	}
	return fmt.Sprintf("dashboard:%s:%s:%d:%s", view, requester.Role, requester.ID, project)
}

func hasRole(requester scope.Requester, role models.Role) bool {
	return requester.Valid() && requester.Role == role
}
