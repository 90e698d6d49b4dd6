package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subject is the entity an activity refers to. Only TaskSubject, ProjectSubject and
// UserSubject implement it.
type Subject interface {
	Kind() SubjectKind
	ID() uint
}

// SubjectKind names the variant of a Subject.
type SubjectKind string

const (
	SubjectTask    SubjectKind = "task"
	SubjectProject SubjectKind = "project"
	SubjectUser    SubjectKind = "user"
)

// TaskSubject references a task.
type TaskSubject struct{ TaskID uint }

// ProjectSubject references a project.
type ProjectSubject struct{ ProjectID uint }

// UserSubject references a user.
type UserSubject struct{ UserID uint }

func (s TaskSubject) Kind() SubjectKind    { return SubjectTask }
func (s TaskSubject) ID() uint             { return s.TaskID }
func (s ProjectSubject) Kind() SubjectKind { return SubjectProject }
func (s ProjectSubject) ID() uint          { return s.ProjectID }
func (s UserSubject) Kind() SubjectKind    { return SubjectUser }
func (s UserSubject) ID() uint             { return s.UserID }

// Activity is an append-only log entry describing a change made by a user.
type Activity struct {
	ID          uint              `gorm:"primaryKey"`
	UserID      uint              `gorm:"not null;index"`
	User        User              `gorm:"foreignKey:UserID"`
	Action      string            `gorm:"size:64;not null"`
	SubjectKind SubjectKind       `gorm:"size:16;not null;index:idx_activity_subject"`
	SubjectID   uint              `gorm:"not null;index:idx_activity_subject"`
	Details     datatypes.JSONMap `gorm:"type:json"`
	Timestamp   time.Time         `gorm:"autoCreateTime;index"`
}

// SetSubject stores the subject reference on the row.
func (a *Activity) SetSubject(subject Subject) {
	a.SubjectKind = subject.Kind()
	a.SubjectID = subject.ID()
}

// Subject rebuilds the typed reference. Rows with an unknown kind yield nil.
func (a Activity) Subject() Subject {
	switch a.SubjectKind {
	case SubjectTask:
		return TaskSubject{TaskID: a.SubjectID}
	case SubjectProject:
		return ProjectSubject{ProjectID: a.SubjectID}
	case SubjectUser:
		return UserSubject{UserID: a.SubjectID}
	default:
		return nil
	}
}

// All lists every persisted model for migrations.
func All() []interface{} {
	return []interface{}{&User{}, &Project{}, &Task{}, &Activity{}}
}
