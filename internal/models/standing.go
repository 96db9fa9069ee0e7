package models

// StandingSummary is a credit-weighted roll-up. GPA is nil when no graded
// credits exist, which callers must render as "no GPA" rather than 0.
type StandingSummary struct {
	GPA           *float64 `json:"gpa"`
	TotalCredits  int      `json:"total_credits"`
	PassedCredits int      `json:"passed_credits"`
}

// TermStanding is the roll-up of one (year, semester) group.
type TermStanding struct {
	Year     int    `json:"year"`
	Semester string `json:"semester"`
	StandingSummary
}

// StandingCourse is a per-enrollment row of a student's standing.
type StandingCourse struct {
	EnrollmentID string   `json:"enrollment_id"`
	CourseCode   string   `json:"course_code"`
	CourseTitle  string   `json:"course_title"`
	Credits      int      `json:"credits"`
	Semester     string   `json:"semester"`
	Year         int      `json:"year"`
	Grade        *float64 `json:"grade"`
	Points       *float64 `json:"points"`
}

// AcademicStanding is the computed academic record of a student.
type AcademicStanding struct {
	StudentID string           `json:"student_id"`
	Overall   StandingSummary  `json:"overall"`
	Terms     []TermStanding   `json:"terms"`
	Courses   []StandingCourse `json:"courses"`
}
