package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TranscriptStatus captures the PDF rendering lifecycle.
type TranscriptStatus string

const (
	TranscriptStatusQueued     TranscriptStatus = "QUEUED"
	TranscriptStatusProcessing TranscriptStatus = "PROCESSING"
	TranscriptStatusReady      TranscriptStatus = "READY"
	TranscriptStatusFailed     TranscriptStatus = "FAILED"
)

// Transcript is a stored transcript snapshot and its rendered PDF.
type Transcript struct {
	ID           string             `db:"id" json:"id"`
	StudentID    string             `db:"student_id" json:"student_id"`
	Content      TranscriptSnapshot `db:"content" json:"content"`
	Status       TranscriptStatus   `db:"status" json:"status"`
	FilePath     *string            `db:"file_path" json:"-"`
	ErrorMessage *string            `db:"error_message" json:"error_message,omitempty"`
	GeneratedBy  *string            `db:"generated_by" json:"generated_by,omitempty"`
	GeneratedAt  time.Time          `db:"generated_at" json:"generated_at"`
	FinishedAt   *time.Time         `db:"finished_at" json:"finished_at,omitempty"`
}

// TranscriptSnapshot is the student record frozen at generation time.
type TranscriptSnapshot struct {
	Student     TranscriptStudent  `json:"student"`
	Enrollments []TranscriptCourse `json:"enrollments"`
	Overall     StandingSummary    `json:"overall"`
	Terms       []TermStanding     `json:"terms"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// TranscriptStudent holds the identifying student fields on a transcript.
type TranscriptStudent struct {
	ID          string  `json:"id"`
	StudentCode string  `json:"student_code"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Program     *string `json:"program,omitempty"`
	College     *string `json:"college,omitempty"`
	Level       int     `json:"level"`
}

// FullName joins first and last name.
func (s TranscriptStudent) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// TranscriptCourse is one enrollment line on a transcript.
type TranscriptCourse struct {
	EnrollmentID string   `json:"enrollment_id"`
	CourseCode   string   `json:"course_code"`
	CourseTitle  string   `json:"course_title"`
	Credits      int      `json:"credits"`
	Semester     string   `json:"semester"`
	Year         int      `json:"year"`
	Grade        *float64 `json:"grade"`
}

// Value marshals the snapshot to JSON for persistence.
func (s TranscriptSnapshot) Value() (driver.Value, error) {
	if s.Enrollments == nil {
		s.Enrollments = []TranscriptCourse{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript snapshot: %w", err)
	}
	return string(data), nil
}

// Scan unmarshals the stored JSON snapshot.
func (s *TranscriptSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = TranscriptSnapshot{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for TranscriptSnapshot", value)
	}
	if len(data) == 0 {
		*s = TranscriptSnapshot{}
		return nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("unmarshal transcript snapshot: %w", err)
	}
	return nil
}

// TranscriptResult is returned when a transcript is generated or fetched.
type TranscriptResult struct {
	Transcript  *Transcript `json:"transcript"`
	DownloadURL *string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time  `json:"expires_at,omitempty"`
}
