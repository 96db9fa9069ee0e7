package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/middleware/requestid"
)

// AuditLogRepository stores the audit trail.
type AuditLogRepository struct {
	db *sqlx.DB
}

// NewAuditLogRepository constructs an AuditLogRepository.
func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record appends an audit entry. diff is marshalled to JSON; the request ID on
// ctx, if any, is stored alongside.
func (r *AuditLogRepository) Record(ctx context.Context, userID, action, targetTable, targetID string, diff interface{}) error {
	payload, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("marshal audit diff: %w", err)
	}
	entry := &models.AuditLog{
		ID:          uuid.NewString(),
		UserID:      optionalString(userID),
		Action:      action,
		TargetTable: targetTable,
		TargetID:    optionalString(targetID),
		Diff:        types.JSONText(payload),
		RequestID:   optionalString(requestid.FromContext(ctx)),
		CreatedAt:   time.Now().UTC(),
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, target_table, target_id, diff, request_id, created_at)
        VALUES (:id, :user_id, :action, :target_table, :target_id, :diff, :request_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("record audit log: %w", err)
	}
	return nil
}

// List returns the most recent audit entries, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.TargetTable != "" {
		conditions = append(conditions, "target_table = ?")
		args = append(args, filter.TargetTable)
	}
	if filter.TargetID != "" {
		conditions = append(conditions, "target_id = ?")
		args = append(args, filter.TargetID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := fmt.Sprintf(`SELECT id, user_id, action, target_table, target_id, diff, request_id, created_at
        FROM audit_logs WHERE %s ORDER BY created_at DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
