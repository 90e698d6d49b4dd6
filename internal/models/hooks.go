package models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps are stored in UTC so that window queries compare like with like on drivers that
// keep the zone offset in the column text.

func (u *User) BeforeSave(*gorm.DB) error {
	u.DateJoined = utc(u.DateJoined)
	return nil
}

func (p *Project) BeforeSave(*gorm.DB) error {
	p.CreatedAt = utc(p.CreatedAt)
	p.UpdatedAt = utc(p.UpdatedAt)
	return nil
}

func (t *Task) BeforeSave(*gorm.DB) error {
	t.CreatedAt = utc(t.CreatedAt)
	t.UpdatedAt = utc(t.UpdatedAt)
	return nil
}

func (a *Activity) BeforeSave(*gorm.DB) error {
	a.Timestamp = utc(a.Timestamp)
	return nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
