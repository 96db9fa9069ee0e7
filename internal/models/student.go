package models

import "time"

// Academic status values.
const (
	AcademicStatusActive    = "active"
	AcademicStatusSuspended = "suspended"
	AcademicStatusGraduated = "graduated"
	AcademicStatusWithdrawn = "withdrawn"
)

// Student represents a learner registered in the college. CreditsCompleted and
// CGPA are informational snapshots; standings are always computed from enrollments.
type Student struct {
	ID               string    `db:"id" json:"id"`
	StudentCode      string    `db:"student_code" json:"student_code"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	Email            *string   `db:"email" json:"email,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	DateOfBirth      *string   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           *string   `db:"gender" json:"gender,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	Program          *string   `db:"program" json:"program,omitempty"`
	College          *string   `db:"college" json:"college,omitempty"`
	Level            int       `db:"level" json:"level"`
	EntryType        *string   `db:"entry_type" json:"entry_type,omitempty"`
	AcademicStatus   string    `db:"academic_status" json:"academic_status"`
	CreditsCompleted int       `db:"credits_completed" json:"credits_completed"`
	CGPA             float64   `db:"cgpa" json:"cgpa"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search         string
	Program        string
	Level          int
	AcademicStatus string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	StudentCode    string  `json:"student_code" validate:"required,max=32"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender"`
	Address        *string `json:"address"`
	Program        *string `json:"program"`
	College        *string `json:"college"`
	Level          int     `json:"level" validate:"required,min=1,max=4"`
	EntryType      *string `json:"entry_type"`
	AcademicStatus string  `json:"academic_status" validate:"omitempty,oneof=active suspended graduated withdrawn"`
}

// UpdateStudentRequest updates the editable student fields.
type UpdateStudentRequest struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender"`
	Address        *string `json:"address"`
	Program        *string `json:"program"`
	College        *string `json:"college"`
	Level          int     `json:"level" validate:"required,min=1,max=4"`
	EntryType      *string `json:"entry_type"`
	AcademicStatus string  `json:"academic_status" validate:"required,oneof=active suspended graduated withdrawn"`
}
