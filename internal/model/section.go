package model

import "time"

// Section represents a class section, loosely related to year levels and
// referenced by students through the free-text section column.
type Section struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Capacity  int        `json:"capacity"`
	Active    bool       `json:"active"`
	YearLevel *string    `json:"year_level"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// SectionRequest is the payload for creating or updating a section.
type SectionRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Code      string  `json:"code" binding:"required,max=50"`
	Capacity  int     `json:"capacity" binding:"required,min=1"`
	Active    *bool   `json:"active"`
	YearLevel *string `json:"year_level" binding:"omitempty,max=255"`
}
