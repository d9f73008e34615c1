package model

import "time"

// Lookup is the shared shape of the simple reference entities: campuses,
// scholarships and year levels. Students reference them by name value.
type Lookup struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// LookupRequest is the payload for creating or updating a lookup entity.
type LookupRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// LookupOption is the id+name projection served by the dropdown endpoints.
type LookupOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
