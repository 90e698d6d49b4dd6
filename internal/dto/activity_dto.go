package dto

import (
	"github.com/noah-isme/teamboard-api/internal/models"
)

// FeedEvent is one entry of the recent-activity feed. Kind specific fields are omitted when
// they do not apply.
type FeedEvent struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Timestamp   DateTime    `json:"timestamp"`
	User        string      `json:"user"`
	UserRole    models.Role `json:"user_role"`
	Status      string      `json:"status,omitempty"`
	Action      string      `json:"action"`

	TaskTitle   string `json:"task_title,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	CompletedBy string `json:"completed_by,omitempty"`

	TargetUser      string      `json:"target_user,omitempty"`
	UserRoleCreated models.Role `json:"user_role_created,omitempty"`
}

// ActivityFeedRequest selects how many feed events to return. A nil Limit uses the default.
type ActivityFeedRequest struct {
	Limit *int
}

// ActivityFeedResponse wraps the derived feed.
type ActivityFeedResponse struct {
	Items []FeedEvent `json:"items"`
}

// ActivitySubjectResponse is the typed reference of a logged activity.
type ActivitySubjectResponse struct {
	Kind models.SubjectKind `json:"kind"`
	ID   uint               `json:"id"`
}

// ActivityLogResponse serializes a persisted activity entry.
type ActivityLogResponse struct {
	ID        uint                     `json:"id"`
	User      string                   `json:"user"`
	UserRole  models.Role              `json:"user_role"`
	Action    string                   `json:"action"`
	Subject   *ActivitySubjectResponse `json:"subject"`
	Details   map[string]interface{}   `json:"details"`
	Timestamp DateTime                 `json:"timestamp"`
}

// NewActivityLogResponse converts an activity model into a DTO.
func NewActivityLogResponse(entry models.Activity) ActivityLogResponse {
	resp := ActivityLogResponse{
		ID:        entry.ID,
		UserRole:  entry.User.Role,
		Action:    entry.Action,
		Details:   map[string]interface{}(entry.Details),
		Timestamp: NewDateTime(entry.Timestamp),
	}
	if entry.User.ID != 0 {
		resp.User = entry.User.DisplayName()
	}
	if subject := entry.Subject(); subject != nil {
		resp.Subject = &ActivitySubjectResponse{Kind: subject.Kind(), ID: subject.ID()}
	}
	if resp.Details == nil {
		resp.Details = map[string]interface{}{}
	}
	return resp
}

// ActivityLogListRequest filters the activity log listing.
type ActivityLogListRequest struct {
	Page     int
	PageSize int
	UserID   uint
	Action   string
	Kind     string
}

// ActivityLogListResponse wraps a paginated activity log.
type ActivityLogListResponse struct {
	Items      []ActivityLogResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}
