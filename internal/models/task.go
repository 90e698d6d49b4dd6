package models

import "time"

// TaskStatus tracks the lifecycle of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Label returns the human readable status.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Task is a unit of work assigned to an employee.
type Task struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       TaskStatus `gorm:"size:32;not null;default:pending;index" json:"status"`
	ProjectID    *uint      `gorm:"index" json:"project"`
	Project      *Project   `gorm:"foreignKey:ProjectID" json:"-"`
	AssignedToID uint       `gorm:"not null;index" json:"assigned_to"`
	AssignedTo   User       `gorm:"foreignKey:AssignedToID" json:"-"`
	AssignedByID uint       `gorm:"not null;index" json:"assigned_by"`
	AssignedBy   User       `gorm:"foreignKey:AssignedByID" json:"-"`
	DueDate      *time.Time `gorm:"type:date" json:"due_date"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"index" json:"updated_at"`
}

// IsOverdue reports whether the due date lies before today and the task is still open.
func (t Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return false
	}
	return DateOf(*t.DueDate).Before(DateOf(today))
}

// DateOf truncates a timestamp to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
