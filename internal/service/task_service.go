package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

const (
	employeeRequired = "Must assign to an employee"
	statusOnly       = "Employees may only change the task status."
)

// TaskService manages tasks within the requester's task scope.
type TaskService interface {
	List(ctx context.Context, requester scope.Requester, params scope.Params) ([]dto.TaskResponse, error)
	Get(ctx context.Context, requester scope.Requester, id uint) (dto.TaskResponse, error)
	Create(ctx context.Context, requester scope.Requester, req dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, requester scope.Requester, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, requester scope.Requester, id uint) error
}

type taskService struct {
	repo     repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	validate *validator.Validate
	activity ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTaskService constructs the task service.
func NewTaskService(repo repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:     repo,
		projects: projects,
		users:    users,
		validate: validate,
		activity: activity,
		logger:   logger.With().Str("component", "task_service").Logger(),
		now:      time.Now,
	}
}

// List returns the visible tasks, newest first. A project filter outside the requester's
// scope yields an empty list rather than an error.
func (s *taskService) List(ctx context.Context, requester scope.Requester, params scope.Params) ([]dto.TaskResponse, error) {
	if !scope.CanRead(scope.KindTask, requester) {
		return nil, ErrForbidden
	}
	tasks, err := s.repo.List(ctx, scope.Resolve(scope.KindTask, requester, params))
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponses(tasks, today(s.now())), nil
}

func (s *taskService) Get(ctx context.Context, requester scope.Requester, id uint) (dto.TaskResponse, error) {
	if !scope.CanRead(scope.KindTask, requester) {
		return dto.TaskResponse{}, ErrForbidden
	}
	task, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}), id)
	if err != nil {
		return dto.TaskResponse{}, notFound(err)
	}
	return dto.NewTaskResponse(task, today(s.now())), nil
}

// Create stores a task assigned by the requester. Employees always assign to themselves.
func (s *taskService) Create(ctx context.Context, requester scope.Requester, req dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if !scope.CanCreate(scope.KindTask, requester) {
		return dto.TaskResponse{}, ErrForbidden
	}

	req.Title = cleanText(req.Title)
	req.Description = cleanText(req.Description)
	if err := validateStruct(s.validate, req); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatusPending,
		AssignedByID: requester.ID,
	}
	if req.Status != "" {
		task.Status = models.TaskStatus(req.Status)
	}
	if req.DueDate != nil {
		due := models.DateOf(req.DueDate.Time())
		task.DueDate = &due
	}

	if requester.Role == models.RoleEmployee {
		task.AssignedToID = requester.ID
	} else {
		if req.AssignedTo == 0 {
			return dto.TaskResponse{}, fieldError("assigned_to", "This field is required.")
		}
		if _, err := requireRole(ctx, s.users, "assigned_to", req.AssignedTo, models.RoleEmployee, employeeRequired); err != nil {
			return dto.TaskResponse{}, err
		}
		task.AssignedToID = req.AssignedTo
	}

	if req.Project != nil {
		if err := s.requireVisibleProject(ctx, requester, *req.Project); err != nil {
			return dto.TaskResponse{}, err
		}
		projectID := *req.Project
		task.ProjectID = &projectID
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		s.logger.Error().Err(err).Str("title", task.Title).Msg("failed to create task")
		return dto.TaskResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "task.created",
		Subject: models.TaskSubject{TaskID: task.ID},
		Details: map[string]interface{}{"title": task.Title, "assigned_to": task.AssignedToID, "status": string(task.Status)},
	})

	return dto.NewTaskResponse(task, today(s.now())), nil
}

func (s *taskService) Update(ctx context.Context, requester scope.Requester, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if !scope.CanUpdate(scope.KindTask, requester) {
		return dto.TaskResponse{}, ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}), id)
	if err != nil {
		return dto.TaskResponse{}, notFound(err)
	}

	if requester.Role == models.RoleEmployee {
		if err := statusOnlyUpdate(req); err != nil {
			return dto.TaskResponse{}, err
		}
	}

	if req.Title != nil {
		title := cleanText(*req.Title)
		req.Title = &title
	}
	if err := validateStruct(s.validate, req); err != nil {
		return dto.TaskResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return dto.TaskResponse{}, fieldError("title", "This field may not be blank.")
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = cleanText(*req.Description)
	}
	if req.Status != nil {
		updates["status"] = models.TaskStatus(*req.Status)
	}
	if req.AssignedTo != nil && *req.AssignedTo != existing.AssignedToID {
		if _, err := requireRole(ctx, s.users, "assigned_to", *req.AssignedTo, models.RoleEmployee, employeeRequired); err != nil {
			return dto.TaskResponse{}, err
		}
		updates["assigned_to_id"] = *req.AssignedTo
	}
	if req.Project.Set {
		if req.Project.Value == nil {
			updates["project_id"] = nil
		} else {
			if err := s.requireVisibleProject(ctx, requester, *req.Project.Value); err != nil {
				return dto.TaskResponse{}, err
			}
			updates["project_id"] = *req.Project.Value
		}
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = models.DateOf(*req.DueDate.Value)
		}
	}

	if len(updates) == 0 {
		return dto.NewTaskResponse(existing, today(s.now())), nil
	}

	task, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to update task")
		return dto.TaskResponse{}, err
	}

	details := map[string]interface{}{"fields": changedFields(updates)}
	if task.Status != existing.Status {
		details["from_status"] = string(existing.Status)
		details["to_status"] = string(task.Status)
	}
	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "task.updated",
		Subject: models.TaskSubject{TaskID: task.ID},
		Details: details,
	})

	return dto.NewTaskResponse(task, today(s.now())), nil
}

func (s *taskService) Delete(ctx context.Context, requester scope.Requester, id uint) error {
	if !scope.CanDelete(scope.KindTask, requester) {
		return ErrForbidden
	}
	existing, err := s.repo.FindInScope(ctx, scope.Resolve(scope.KindTask, requester, scope.Params{}), id)
	if err != nil {
		return notFound(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Uint("task_id", id).Msg("failed to delete task")
		return notFound(err)
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:   actorOf(requester),
		Action:  "task.deleted",
		Subject: models.TaskSubject{TaskID: id},
		Details: map[string]interface{}{"title": existing.Title},
	})
	return nil
}

// requireVisibleProject accepts only projects inside the requester's project scope, so a
// manager cannot file tasks under another manager's project.
func (s *taskService) requireVisibleProject(ctx context.Context, requester scope.Requester, id uint) error {
	_, err := s.projects.FindInScope(ctx, scope.Resolve(scope.KindProject, requester, scope.Params{}), id)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fieldError("project", missingReference(id))
	}
	return err
}

func statusOnlyUpdate(req dto.TaskUpdateRequest) error {
	fields := map[string]string{}
	if req.Title != nil {
		fields["title"] = statusOnly
	}
	if req.Description != nil {
		fields["description"] = statusOnly
	}
	if req.Project.Set {
		fields["project"] = statusOnly
	}
	if req.AssignedTo != nil {
		fields["assigned_to"] = statusOnly
	}
	if req.DueDate.Set {
		fields["due_date"] = statusOnly
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

