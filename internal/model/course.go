package model

import "time"

// Course represents a degree program owned by a college.
type Course struct {
	ID          int        `json:"id"`
	CollegeID   int        `json:"college_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Active      bool       `json:"active"`
	CollegeName *string    `json:"college_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	CollegeID   int     `json:"college_id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}
