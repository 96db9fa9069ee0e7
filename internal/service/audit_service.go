package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

// auditRecorder is the audit sink shared by the write paths.
type auditRecorder interface {
	Record(ctx context.Context, userID, action, targetTable, targetID string, diff interface{}) error
}

type auditLister interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// recordAudit writes an audit entry and only logs a failure: the audited
// change has already been committed by the time it runs.
func recordAudit(ctx context.Context, audit auditRecorder, logger *zap.Logger, userID, action, table, targetID string, diff interface{}) {
	if audit == nil {
		return
	}
	if err := audit.Record(ctx, userID, action, table, targetID, diff); err != nil {
		logger.Warn("failed to record audit log",
			zap.String("action", action),
			zap.String("target_table", table),
			zap.String("target_id", targetID),
			zap.Error(err))
	}
}

// mapLookupErr turns sql.ErrNoRows into a NotFound carrying msg.
func mapLookupErr(err error, msg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, msg)
	}
	return appErrors.Internal(err, internalMsg)
}

const maxAuditLimit = 500

// AuditService exposes the recent audit trail to administrators.
type AuditService struct {
	repo   auditLister
	logger *zap.Logger
}

func NewAuditService(repo auditLister, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns the newest entries first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if filter.Limit > maxAuditLimit {
		filter.Limit = maxAuditLimit
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}
