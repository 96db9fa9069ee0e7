package models

import "time"

// Course is an entry in the shared course catalog.
type Course struct {
	ID          string    `db:"id" json:"id"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	Title       string    `db:"title" json:"title"`
	Credits     int       `db:"credits" json:"credits"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures catalog search options.
type CourseFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CreateCourseRequest adds a course to the catalog.
type CreateCourseRequest struct {
	CourseCode  string  `json:"course_code" validate:"required,max=32"`
	Title       string  `json:"title" validate:"required"`
	Credits     int     `json:"credits" validate:"min=0,max=12"`
	Description *string `json:"description"`
}
