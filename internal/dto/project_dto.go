package dto

import "github.com/noah-isme/teamboard-api/internal/models"

// ProjectResponse serializes a project.
type ProjectResponse struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	CreatedBy      uint     `json:"created_by"`
	CreatedByName  string   `json:"created_by_name,omitempty"`
	AssignedTo     uint     `json:"assigned_to"`
	AssignedToName string   `json:"assigned_to_name,omitempty"`
	CreatedAt      DateTime `json:"created_at"`
	Deadline       *Date    `json:"deadline"`
}

// NewProjectResponse converts a project model into a DTO.
func NewProjectResponse(project models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedByID,
		AssignedTo:  project.AssignedToID,
		CreatedAt:   NewDateTime(project.CreatedAt),
		Deadline:    DatePtr(project.Deadline),
	}
	if project.CreatedBy.ID != 0 {
		resp.CreatedByName = project.CreatedBy.DisplayName()
	}
	if project.AssignedTo.ID != 0 {
		resp.AssignedToName = project.AssignedTo.DisplayName()
	}
	return resp
}

// NewProjectResponses converts a slice of projects.
func NewProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, NewProjectResponse(project))
	}
	return out
}

// ManagerProjectResponse is the manager's project view with rounded progress.
type ManagerProjectResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Deadline       *Date  `json:"deadline"`
	Progress       int    `json:"progress"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
}

// ProjectCreateRequest is the payload for creating a project.
type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=10000"`
	AssignedTo  uint   `json:"assigned_to" validate:"required"`
	Deadline    *Date  `json:"deadline"`
}

// ProjectUpdateRequest captures partial project updates.
type ProjectUpdateRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description" validate:"omitempty,max=10000"`
	AssignedTo  *uint        `json:"assigned_to" validate:"omitempty,min=1"`
	Deadline    NullableDate `json:"deadline"`
}
