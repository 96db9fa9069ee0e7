package models

import "time"

// Program is a named academic track such as Mechatronics Technology.
type Program struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProgramCourse maps a course into a program at a level under a display semester label.
type ProgramCourse struct {
	ProgramID     string `db:"program_id" json:"program_id"`
	CourseID      string `db:"course_id" json:"course_id"`
	Level         int    `db:"level" json:"level"`
	SemesterLabel string `db:"semester_label" json:"semester_label"`
}

// CurriculumEntry is one row of a program's prescribed curriculum.
type CurriculumEntry struct {
	SemesterLabel string `json:"semester_label"`
	Course        Course `json:"course"`
}
