package models

import "time"

// Enrollment registers a student in one course for one term. Grade stays nil
// until grade components have been saved.
type Enrollment struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	Semester    string    `db:"semester" json:"semester"`
	Year        int       `db:"year" json:"year"`
	Assignment1 *float64  `db:"assignment1" json:"assignment1"`
	Assignment2 *float64  `db:"assignment2" json:"assignment2"`
	Grade       *float64  `db:"grade" json:"grade"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentWithCourse enriches an Enrollment with the catalog entry it references.
type EnrollmentWithCourse struct {
	Enrollment
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	Credits     int    `db:"credits" json:"credits"`
}

// CreateEnrollmentRequest registers a student in a course offering.
type CreateEnrollmentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Semester  string `json:"semester" validate:"required,max=32"`
	Year      int    `json:"year" validate:"required,min=1900,max=2999"`
}

// UpdateMarksRequest sets the two legacy fixed-slot marks.
type UpdateMarksRequest struct {
	Assignment1 *float64 `json:"assignment1" validate:"omitempty,gte=0"`
	Assignment2 *float64 `json:"assignment2" validate:"omitempty,gte=0"`
}
