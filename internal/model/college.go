package model

import "time"

// College represents a college/faculty. It owns courses; soft-delete and
// restore cascade to them.
type College struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Active      bool       `json:"active"`
	Courses     []Course   `json:"courses,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// CollegeRequest is the payload for creating or updating a college, with an
// optional nested course set reconciled in the same transaction.
type CollegeRequest struct {
	Name        string              `json:"name" binding:"required,max=255"`
	Description *string             `json:"description"`
	Active      *bool               `json:"active"`
	Courses     []NestedCourseInput `json:"courses" binding:"omitempty,dive"`
}

// NestedCourseInput is a course entry inside a college payload. A zero ID
// creates a new course; a known ID updates the existing one.
type NestedCourseInput struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}
