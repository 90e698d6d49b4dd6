package models

import "time"

// Project groups tasks and is owned by the supermanager that created it.
type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	CreatedByID  uint       `gorm:"not null;index" json:"created_by"`
	CreatedBy    User       `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedToID uint       `gorm:"not null;index" json:"assigned_to"`
	AssignedTo   User       `gorm:"foreignKey:AssignedToID" json:"-"`
	Deadline     *time.Time `gorm:"type:date" json:"deadline"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"index" json:"updated_at"`
	Tasks        []Task     `gorm:"foreignKey:ProjectID" json:"-"`
}

// IsActiveOn reports whether the project deadline has not passed on the given day.
func (p Project) IsActiveOn(today time.Time) bool {
	if p.Deadline == nil {
		return false
	}
	return !DateOf(*p.Deadline).Before(DateOf(today))
}
