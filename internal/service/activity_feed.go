package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
)

const (
	feedTypeTask    = "task"
	feedTypeProject = "project"
	feedTypeUser    = "user"

	systemActor  = "System"
	noProjectTag = "No Project"
)

// FeedOptions tunes the recent-activity feed.
type FeedOptions struct {
	// Window bounds which records are considered at all.
	Window time.Duration
	// Recent bounds when task creation and completion events fire.
	Recent time.Duration
	Limit  int
}

// DefaultFeedOptions is a 30 day window, a 1 day recency window and 10 events.
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{Window: 30 * 24 * time.Hour, Recent: 24 * time.Hour, Limit: 10}
}

// FeedCandidates are the records touched inside the window. Tasks need AssignedTo,
// AssignedBy and Project loaded; projects need CreatedBy.
type FeedCandidates struct {
	Tasks    []models.Task
	Projects []models.Project
	Users    []models.User
}

type timedEvent struct {
	at    time.Time
	event dto.FeedEvent
}

// BuildFeed derives feed events from the candidates as of now, newest first, at most
// opts.Limit of them. Events with identical timestamps keep candidate order (tasks, then
// projects, then users).
func BuildFeed(now time.Time, candidates FeedCandidates, opts FeedOptions) []dto.FeedEvent {
	if opts.Limit <= 0 {
		return []dto.FeedEvent{}
	}

	since := now.Add(-opts.Window)
	recent := now.Add(-opts.Recent)
	events := make([]timedEvent, 0, len(candidates.Tasks)+len(candidates.Projects)+len(candidates.Users))

	for _, task := range candidates.Tasks {
		if !onOrAfter(task.CreatedAt, since) && !onOrAfter(task.UpdatedAt, since) {
			continue
		}
		events = append(events, taskEvents(task, recent)...)
	}

	for _, project := range candidates.Projects {
		if !onOrAfter(project.CreatedAt, since) && !onOrAfter(project.UpdatedAt, since) {
			continue
		}
		events = append(events, projectEvent(project))
	}

	for _, user := range candidates.Users {
		if !onOrAfter(user.DateJoined, since) {
			continue
		}
		events = append(events, userEvent(user))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.After(events[j].at)
	})

	if len(events) > opts.Limit {
		events = events[:opts.Limit]
	}

	feed := make([]dto.FeedEvent, 0, len(events))
	for _, item := range events {
		feed = append(feed, item.event)
	}
	return feed
}

func taskEvents(task models.Task, recent time.Time) []timedEvent {
	out := make([]timedEvent, 0, 2)
	manager := task.AssignedBy
	assignee := task.AssignedTo.DisplayName()
	projectName := noProjectTag
	if task.Project != nil {
		projectName = task.Project.Name
	}

	if onOrAfter(task.CreatedAt, recent) {
		out = append(out, timedEvent{at: task.CreatedAt, event: dto.FeedEvent{
			ID:          fmt.Sprintf("task_%d_created", task.ID),
			Type:        feedTypeTask,
			Title:       "Task created: " + task.Title,
			Description: "Assigned to " + assignee,
			Timestamp:   dto.NewDateTime(task.CreatedAt),
			User:        manager.DisplayName(),
			UserRole:    manager.Role,
			Status:      string(task.Status),
			Action:      "created",
			TaskTitle:   task.Title,
			ProjectName: projectName,
			AssignedTo:  assignee,
		}})
	}

	// A task stored as completed in the same write that created it has equal timestamps and
	// only produces the creation event.
	if task.Status == models.TaskStatusCompleted && onOrAfter(task.UpdatedAt, recent) && !task.UpdatedAt.Equal(task.CreatedAt) {
		out = append(out, timedEvent{at: task.UpdatedAt, event: dto.FeedEvent{
			ID:          fmt.Sprintf("task_%d_completed", task.ID),
			Type:        feedTypeTask,
			Title:       "Task completed: " + task.Title,
			Description: "Completed by team under " + manager.DisplayName(),
			Timestamp:   dto.NewDateTime(task.UpdatedAt),
			User:        manager.DisplayName(),
			UserRole:    manager.Role,
			Status:      string(models.TaskStatusCompleted),
			Action:      "completed",
			TaskTitle:   task.Title,
			ProjectName: projectName,
			CompletedBy: assignee,
		}})
	}

	return out
}

func projectEvent(project models.Project) timedEvent {
	action := "created"
	at := project.CreatedAt
	if !project.UpdatedAt.Equal(project.CreatedAt) {
		action = "updated"
		at = project.UpdatedAt
	}

	return timedEvent{at: at, event: dto.FeedEvent{
		ID:          fmt.Sprintf("project_%d", project.ID),
		Type:        feedTypeProject,
		Title:       fmt.Sprintf("Project %s: %s", action, project.Name),
		Description: project.Description,
		Timestamp:   dto.NewDateTime(at),
		User:        project.CreatedBy.DisplayName(),
		UserRole:    project.CreatedBy.Role,
		Status:      "active",
		Action:      action,
		ProjectName: project.Name,
	}}
}

func userEvent(user models.User) timedEvent {
	status := "active"
	if !user.IsActive {
		status = "inactive"
	}

	return timedEvent{at: user.DateJoined, event: dto.FeedEvent{
		ID:              fmt.Sprintf("user_%d", user.ID),
		Type:            feedTypeUser,
		Title:           "User created: " + user.DisplayName(),
		Description:     fmt.Sprintf("New %s account created", user.Role),
		Timestamp:       dto.NewDateTime(user.DateJoined),
		User:            systemActor,
		UserRole:        models.RoleSupermanager,
		Status:          status,
		Action:          "created",
		TargetUser:      user.DisplayName(),
		UserRoleCreated: user.Role,
	}}
}

func onOrAfter(t, bound time.Time) bool {
	return !t.Before(bound)
}
