package models

import "time"

// RafehAdjustment is a consolation mark granted to a student for an academic year.
type RafehAdjustment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Year      int       `db:"year" json:"year"`
	Amount    float64   `db:"amount" json:"amount"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	AppliedBy *string   `db:"applied_by" json:"applied_by,omitempty"`
	AppliedAt time.Time `db:"applied_at" json:"applied_at"`
}

// ApplyRafehRequest grants an adjustment.
type ApplyRafehRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Year      int     `json:"year" validate:"required,min=1900,max=2999"`
	Amount    float64 `json:"amount" validate:"gt=0,lte=100"`
	Reason    *string `json:"reason" validate:"omitempty,max=500"`
}
