package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type pmdRepository interface {
	Create(ctx context.Context, record *models.PmdRecord) error
	FindByID(ctx context.Context, id string) (*models.PmdRecord, error)
	Approve(ctx context.Context, id, approvedBy string, at time.Time) error
	ListPending(ctx context.Context) ([]models.PmdRecord, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.PmdRecord, error)
}

// PmdService handles medical, deferred and pass requests against enrollments.
type PmdService struct {
	repo        pmdRepository
	enrollments gradeEnrollmentReader
	audit       auditRecorder
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewPmdService(repo pmdRepository, enrollments gradeEnrollmentReader, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *PmdService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PmdService{repo: repo, enrollments: enrollments, audit: audit, validator: validate, logger: logger}
}

// Submit files a pending request for an enrollment.
func (s *PmdService) Submit(ctx context.Context, req models.SubmitPmdRequest, actingUserID string) (*models.PmdRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pmd payload")
	}
	if _, err := s.enrollments.FindByID(ctx, req.EnrollmentID); err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}

	record := &models.PmdRecord{
		EnrollmentID: req.EnrollmentID,
		Type:         req.Type,
		DocURL:       req.DocURL,
		SubmittedAt:  time.Now().UTC(),
	}
	if actingUserID != "" {
		record.SubmittedBy = &actingUserID
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to submit pmd request")
	}

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionPmdSubmit, "pmd_records", record.ID,
		map[string]interface{}{"enrollmentId": record.EnrollmentID, "type": record.Type})
	return record, nil
}

// Approve marks a pending request approved. Approving twice is a conflict.
func (s *PmdService) Approve(ctx context.Context, id, actingUserID string) (*models.PmdRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "pmd request not found", "failed to load pmd request")
	}
	if record.ApprovedAt != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "pmd request already approved")
	}

	at := time.Now().UTC()
	if err := s.repo.Approve(ctx, id, actingUserID, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "pmd request already approved")
		}
		return nil, appErrors.Internal(err, "failed to approve pmd request")
	}
	record.ApprovedBy = &actingUserID
	record.ApprovedAt = &at

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionPmdApprove, "pmd_records", id,
		map[string]interface{}{"enrollmentId": record.EnrollmentID, "type": record.Type})
	return record, nil
}

func (s *PmdService) ListPending(ctx context.Context) ([]models.PmdRecord, error) {
	records, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list pending pmd requests")
	}
	if records == nil {
		records = []models.PmdRecord{}
	}
	return records, nil
}

func (s *PmdService) ListForEnrollment(ctx context.Context, enrollmentID string) ([]models.PmdRecord, error) {
	if _, err := s.enrollments.FindByID(ctx, enrollmentID); err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}
	records, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list pmd requests")
	}
	if records == nil {
		records = []models.PmdRecord{}
	}
	return records, nil
}
