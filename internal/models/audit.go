package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Audit actions written by services.
const (
	AuditActionLogin                  = "LOGIN"
	AuditActionUserCreate             = "USER_CREATE"
	AuditActionPasswordChange         = "PASSWORD_CHANGE"
	AuditActionGradeComponentsUpdated = "GRADE_COMPONENTS_UPDATED"
	AuditActionPmdSubmit              = "PMD_SUBMIT"
	AuditActionPmdApprove             = "PMD_APPROVE"
	AuditActionRafehApply             = "RAFEH_APPLY"
	AuditActionTranscriptGenerate     = "TRANSCRIPT_GENERATE"
	AuditActionStandingSync           = "STANDING_SYNC"
)

// AuditLog represents an audit trail record. Diff holds a free-form JSON payload.
type AuditLog struct {
	ID          string         `db:"id" json:"id"`
	UserID      *string        `db:"user_id" json:"user_id,omitempty"`
	Action      string         `db:"action" json:"action"`
	TargetTable string         `db:"target_table" json:"target_table"`
	TargetID    *string        `db:"target_id" json:"target_id,omitempty"`
	Diff        types.JSONText `db:"diff" json:"diff,omitempty"`
	RequestID   *string        `db:"request_id" json:"request_id,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// AuditFilter narrows the recent audit listing.
type AuditFilter struct {
	Action      string
	TargetTable string
	TargetID    string
	Limit       int
}
