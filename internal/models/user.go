package models

import (
	"strings"
	"time"
)

// Role identifies what a user is allowed to see and do.
type Role string

const (
	RoleSupermanager Role = "supermanager"
	RoleManager      Role = "manager"
	RoleEmployee     Role = "employee"
)

// ParseRole normalises a raw role string. Unknown roles yield an empty Role.
func ParseRole(raw string) Role {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleSupermanager, RoleManager, RoleEmployee:
		return role
	default:
		return ""
	}
}

// User is an account that can log in and be assigned work.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:255" json:"full_name"`
	Role         Role      `gorm:"size:32;index;not null" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DateJoined   time.Time `gorm:"autoCreateTime;index" json:"date_joined"`
}

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}
