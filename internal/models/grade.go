package models

import "time"

// GradeComponent is one weighted piece of an enrollment's assessment. A nil
// Score means the component has not been graded yet.
type GradeComponent struct {
	ID            string    `db:"id" json:"id"`
	EnrollmentID  string    `db:"enrollment_id" json:"enrollment_id"`
	ComponentType string    `db:"component_type" json:"component_type"`
	Weight        float64   `db:"weight" json:"weight"`
	MaxScore      float64   `db:"max_score" json:"max_score"`
	Score         *float64  `db:"score" json:"score"`
	Position      int       `db:"position" json:"position"`
	RecordedBy    *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// GradeComponentInput describes a component in a save request.
type GradeComponentInput struct {
	ComponentType string   `json:"component_type" validate:"required,max=64"`
	Weight        float64  `json:"weight" validate:"gte=0"`
	MaxScore      float64  `json:"max_score" validate:"gte=0"`
	Score         *float64 `json:"score" validate:"omitempty,gte=0"`
}

// SaveGradeComponentsRequest replaces the full component set of an enrollment.
type SaveGradeComponentsRequest struct {
	Components []GradeComponentInput `json:"components" validate:"dive"`
}

// SaveGradeComponentsResult reports the persisted set and the recomputed grade.
type SaveGradeComponentsResult struct {
	EnrollmentID string           `json:"enrollment_id"`
	FinalGrade   float64          `json:"final_grade"`
	Components   []GradeComponent `json:"components"`
}
