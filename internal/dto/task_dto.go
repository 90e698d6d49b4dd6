package dto

import (
	"time"

	"github.com/noah-isme/teamboard-api/internal/models"
)

// UserRef is the short user summary embedded in task payloads.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// TaskResponse serializes a task.
type TaskResponse struct {
	ID                uint              `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            models.TaskStatus `json:"status"`
	DisplayStatus     string            `json:"display_status"`
	Project           *uint             `json:"project"`
	ProjectName       string            `json:"project_name,omitempty"`
	AssignedTo        uint              `json:"assigned_to"`
	AssignedToDetails *UserRef          `json:"assigned_to_details"`
	AssignedBy        string            `json:"assigned_by"`
	AssignedByDetails *UserRef          `json:"assigned_by_details"`
	DueDate           *Date             `json:"due_date"`
	IsOverdue         bool              `json:"is_overdue"`
	CreatedAt         DateTime          `json:"created_at"`
	UpdatedAt         DateTime          `json:"updated_at"`
}

// NewTaskResponse converts a task model into a DTO. today decides is_overdue.
func NewTaskResponse(task models.Task, today time.Time) TaskResponse {
	overdue := task.IsOverdue(today)
	display := task.Status.Label()
	if overdue {
		display = "Overdue"
	}

	resp := TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		DisplayStatus: display,
		Project:       task.ProjectID,
		AssignedTo:    task.AssignedToID,
		DueDate:       DatePtr(task.DueDate),
		IsOverdue:     overdue,
		CreatedAt:     NewDateTime(task.CreatedAt),
		UpdatedAt:     NewDateTime(task.UpdatedAt),
	}
	if task.Project != nil {
		resp.ProjectName = task.Project.Name
	}
	if task.AssignedTo.ID != 0 {
		resp.AssignedToDetails = &UserRef{
			ID:       task.AssignedTo.ID,
			Username: task.AssignedTo.Username,
			FullName: task.AssignedTo.FullName,
			Email:    task.AssignedTo.Email,
		}
	}
	if task.AssignedBy.ID != 0 {
		resp.AssignedBy = task.AssignedBy.Username
		resp.AssignedByDetails = &UserRef{
			ID:       task.AssignedBy.ID,
			Username: task.AssignedBy.Username,
			FullName: task.AssignedBy.FullName,
		}
	}
	return resp
}

// NewTaskResponses converts a slice of tasks.
func NewTaskResponses(tasks []models.Task, today time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskResponse(task, today))
	}
	return out
}

// TaskCreateRequest is the payload for creating a task.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Project     *uint  `json:"project" validate:"omitempty,min=1"`
	AssignedTo  uint   `json:"assigned_to"`
	DueDate     *Date  `json:"due_date"`
}

// TaskUpdateRequest captures partial task updates.
type TaskUpdateRequest struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description" validate:"omitempty,max=10000"`
	Status      *string      `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Project     NullableID   `json:"project"`
	AssignedTo  *uint        `json:"assigned_to" validate:"omitempty,min=1"`
	DueDate     NullableDate `json:"due_date"`
}
