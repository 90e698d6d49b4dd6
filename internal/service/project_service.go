package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

const managerRequired = "The assigned user must be a manager"

// ProjectService manages projects within the requester's project scope.
type ProjectService interface {
	List(ctx context.Context, requester scope.Requester) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, requester scope.Requester, id uint) (dto.ProjectResponse, error)
	ListWithProgress(ctx context.Context, requester scope.Requester) ([]dto.ManagerProjectResponse, error)
	GetWithProgress(ctx context.Context, requester scope.Requester, id uint) (dto.ManagerProjectResponse, error)
	Create(ctx context.Context, requester scope.Requester, req dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, requester scope.Requester, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, requester scope.Requester, id uint) error
}

type projectService struct {
	repo     repository.ProjectRepository
	users    repository.UserRepository
	validate *validator.Validate
	activity ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewProjectService constructs the project service.
func NewProjectService(repo repository.ProjectRepository, users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ProjectService {
	return &projectService{
		repo:     repo,
		users:    users,
		validate: validate,
		activity: activity,
		logger:   logger.With().Str("component", "project_service").Logger(),
		now:      time.Now,
	}
}

func (s *projectService) List(ctx context.Context, requester scope.Requester) ([]dto.ProjectResponse, error) {
	if !scope.CanRead(scope.KindProject, requester) {
		return nil, ErrForbidden
	}
	projects, err := s.repo.List(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}))
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponses(projects), nil
}

func (s *projectService) Get(ctx context.Context, requester scope.Requester, id uint) (dto.ProjectResponse, error) {
	if !scope.CanRead(scope.KindProject, requester) {
		return dto.ProjectResponse{}, ErrForbidden
	}
	project, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}), id)
	if err != nil {
		return dto.ProjectResponse{}, notFound(err)
	}
	return dto.NewProjectResponse(project), nil
}

// ListWithProgress returns the visible projects with completion rounded half to even.
func (s *projectService) ListWithProgress(ctx context.Context, requester scope.Requester) ([]dto.ManagerProjectResponse, error) {
	if !scope.CanRead(scope.KindProject, requester) {
		return nil, ErrForbidden
	}
	projects, err := s.repo.ListWithTasks(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}))
	if err != nil {
		return nil, err
	}
	return Aggregate(tasksOf(projects), projects, s.now()).ManagerProjects(), nil
}

func (s *projectService) GetWithProgress(ctx context.Context, requester scope.Requester, id uint) (dto.ManagerProjectResponse, error) {
	if !scope.CanRead(scope.KindProject, requester) {
		return dto.ManagerProjectResponse{}, ErrForbidden
	}
	project, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}), id)
	if err != nil {
		return dto.ManagerProjectResponse{}, notFound(err)
	}
	projects := []models.Project{project}
	return Aggregate(project.Tasks, projects, s.now()).ManagerProjects()[0], nil
}

// Create stores a project owned by the requester and assigned to a manager.
func (s *projectService) Create(ctx context.Context, requester scope.Requester, req dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if !scope.CanCreate(scope.KindProject, requester) {
		return dto.ProjectResponse{}, ErrForbidden
	}

	req.Name = cleanText(req.Name)
	req.Description = cleanText(req.Description)
	if err := validateStruct(s.validate, req); err != nil {
		return dto.ProjectResponse{}, err
	}
	if _, err := requireRole(ctx, s.users, "assigned_to", req.AssignedTo, models.RoleManager, managerRequired); err != nil {
		return dto.ProjectResponse{}, err
	}

	project := models.Project{
		Name:         req.Name,
		Description:  req.Description,
		CreatedByID:  requester.ID,
		AssignedToID: req.AssignedTo,
	}
	if req.Deadline != nil {
		deadline := models.DateOf(req.Deadline.Time())
		project.Deadline = &deadline
	}

	if err := s.repo.Create(ctx, &project); err != nil {
		s.logger.Error().Err(err).Str("name", project.Name).Msg("failed to create project")
		return dto.ProjectResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "project.created",
		Subject: models.ProjectSubject{ProjectID: project.ID},
		Details: map[string]interface{}{"name": project.Name, "assigned_to": project.AssignedToID},
	})

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, requester scope.Requester, id uint, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if !scope.CanUpdate(scope.KindProject, requester) {
		return dto.ProjectResponse{}, ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}), id)
	if err != nil {
		return dto.ProjectResponse{}, notFound(err)
	}

	if req.Name != nil {
		name := cleanText(*req.Name)
		req.Name = &name
	}
	if err := validateStruct(s.validate, req); err != nil {
		return dto.ProjectResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return dto.ProjectResponse{}, fieldError("name", "This field may not be blank.")
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = cleanText(*req.Description)
	}
	if req.AssignedTo != nil && *req.AssignedTo != existing.AssignedToID {
		if _, err := requireRole(ctx, s.users, "assigned_to", *req.AssignedTo, models.RoleManager, managerRequired); err != nil {
			return dto.ProjectResponse{}, err
		}
		updates["assigned_to_id"] = *req.AssignedTo
	}
	if req.Deadline.Set {
		if req.Deadline.Value == nil {
			updates["deadline"] = nil
		} else {
			updates["deadline"] = models.DateOf(*req.Deadline.Value)
		}
	}

	if len(updates) == 0 {
		return dto.NewProjectResponse(existing), nil
	}

	project, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("failed to update project")
		return dto.ProjectResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "project.updated",
		Subject: models.ProjectSubject{ProjectID: project.ID},
		Details: map[string]interface{}{"fields": changedFields(updates)},
	})

	return dto.NewProjectResponse(project), nil
}

// Delete removes a project. Its tasks remain, detached from any project.
func (s *projectService) Delete(ctx context.Context, requester scope.Requester, id uint) error {
	if !scope.CanDelete(scope.KindProject, requester) {
		return ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}), id)
	if err != nil {
		return notFound(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Uint("project_id", id).Msg("failed to delete project")
		return notFound(err)
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "project.deleted",
		Subject: models.ProjectSubject{ProjectID: id},
		Details: map[string]interface{}{"name": existing.Name, "detached_tasks": len(existing.Tasks)},
	})
	return nil
}

func tasksOf(projects []models.Project) []models.Task {
	tasks := make([]models.Task, 0)
	for _, project := range projects {
		tasks = append(tasks, project.Tasks...)
	}
	return tasks
}
