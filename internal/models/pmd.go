package models

import "time"

// PmdType classifies a medical/deferred/pass request.
type PmdType string

const (
	PmdMedical  PmdType = "MEDICAL"
	PmdDeferred PmdType = "DEFERRED"
	PmdPass     PmdType = "PASS"
)

// PmdRecord is a PMD request attached to an enrollment. It is pending until approved.
type PmdRecord struct {
	ID           string     `db:"id" json:"id"`
	EnrollmentID string     `db:"enrollment_id" json:"enrollment_id"`
	Type         PmdType    `db:"pmd_type" json:"type"`
	DocURL       *string    `db:"doc_url" json:"doc_url,omitempty"`
	SubmittedBy  *string    `db:"submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt  time.Time  `db:"submitted_at" json:"submitted_at"`
	ApprovedBy   *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `db:"approved_at" json:"approved_at,omitempty"`
}

// SubmitPmdRequest files a PMD request.
type SubmitPmdRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required"`
	Type         PmdType `json:"type" validate:"required,oneof=MEDICAL DEFERRED PASS"`
	DocURL       *string `json:"doc_url" validate:"omitempty,url"`
}
