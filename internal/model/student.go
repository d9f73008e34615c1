package model

import "time"

// Gender represents the student's gender.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// StudentStatus represents the student's enrolment status.
type StudentStatus string

const (
	StudentStatusRegular   StudentStatus = "Regular"
	StudentStatusIrregular StudentStatus = "Irregular"
)

// ScholarshipType enumerates the accepted scholarship classifications.
type ScholarshipType string

const (
	ScholarshipAcademic  ScholarshipType = "Academic"
	ScholarshipAthletic  ScholarshipType = "Athletic"
	ScholarshipNeedBased ScholarshipType = "Need-Based"
	ScholarshipGovt      ScholarshipType = "Government"
)

// Student represents an enrolled student record. Placement columns (course,
// college, campus, year_level, section, scholarship_type) are denormalized
// free text matched against the lookup tables by name, not by key.
type Student struct {
	ID              int        `json:"id"`
	StudentID       string     `json:"student_id"`
	LastName        string     `json:"last_name"`
	FirstName       string     `json:"first_name"`
	MiddleName      *string    `json:"middle_name"`
	Course          string     `json:"course"`
	College         string     `json:"college"`
	Campus          string     `json:"campus"`
	YearLevel       string     `json:"year_level"`
	Gender          string     `json:"gender"`
	Birthday        string     `json:"birthday"`
	BirthPlace      string     `json:"birth_place"`
	CompAddress     *string    `json:"comp_address"`
	Barangay        string     `json:"barangay"`
	Town            string     `json:"town"`
	Province        string     `json:"province"`
	Email           string     `json:"email"`
	Number          string     `json:"number"`
	FatherName      string     `json:"father_name"`
	FatherOccup     string     `json:"father_occup"`
	MotherName      string     `json:"mother_name"`
	MotherOccup     string     `json:"mother_occup"`
	StudentStatus   string     `json:"student_status"`
	LastSem         *string    `json:"last_sem"`
	Section         string     `json:"section"`
	Approved        string     `json:"approved"`
	ScholarshipType string     `json:"scholarship_type"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	StudentID       string  `json:"student_id" binding:"required,max=255"`
	LastName        string  `json:"last_name" binding:"required,max=255"`
	FirstName       string  `json:"first_name" binding:"required,max=255"`
	MiddleName      *string `json:"middle_name" binding:"omitempty,max=255"`
	Course          string  `json:"course" binding:"required,max=255"`
	College         string  `json:"college" binding:"required,max=255"`
	Campus          string  `json:"campus" binding:"required,max=255"`
	YearLevel       string  `json:"year_level" binding:"required,max=255"`
	Gender          string  `json:"gender" binding:"required,oneof=Male Female"`
	Birthday        string  `json:"birthday" binding:"required,max=255"`
	BirthPlace      string  `json:"birth_place" binding:"required,max=255"`
	CompAddress     *string `json:"comp_address" binding:"omitempty,max=255"`
	Barangay        string  `json:"barangay" binding:"required,max=255"`
	Town            string  `json:"town" binding:"required,max=255"`
	Province        string  `json:"province" binding:"required,max=255"`
	Email           string  `json:"email" binding:"required,email,max=255"`
	Number          string  `json:"number" binding:"required,max=255"`
	FatherName      string  `json:"father_name" binding:"required,max=255"`
	FatherOccup     string  `json:"father_occup" binding:"required,max=255"`
	MotherName      string  `json:"mother_name" binding:"required,max=255"`
	MotherOccup     string  `json:"mother_occup" binding:"required,max=255"`
	StudentStatus   string  `json:"student_status" binding:"required,oneof=Regular Irregular"`
	LastSem         *string `json:"last_sem" binding:"omitempty,max=255"`
	Section         string  `json:"section" binding:"required,max=255"`
	Approved        string  `json:"approved" binding:"required,max=255"`
	ScholarshipType string  `json:"scholarship_type" binding:"required,oneof=Academic Athletic Need-Based Government"`
}

// StudentFilter restricts a student listing. Empty slices are ignored.
// Limit -1 disables pagination and returns every match.
type StudentFilter struct {
	Course          []string
	College         []string
	Campus          []string
	YearLevel       []string
	StudentStatus   []string
	ScholarshipType []string
	// Search is a substring match on student_id.
	Search string
	Page   int
	Limit  int
	// Trashed selects soft-deleted rows instead of live ones.
	Trashed bool
}

// BulkDeleteRequest is the payload for soft-deleting a set of students.
type BulkDeleteRequest struct {
	IDs []int `json:"ids" binding:"required,min=1,dive,required"`
}
