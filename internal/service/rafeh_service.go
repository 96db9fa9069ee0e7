package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type rafehRepository interface {
	Create(ctx context.Context, adj *models.RafehAdjustment) error
	ListByStudent(ctx context.Context, studentID string) ([]models.RafehAdjustment, error)
}

// RafehService grants consolation marks. Adjustments are recorded for the
// academic year and do not rewrite component scores.
type RafehService struct {
	repo      rafehRepository
	students  enrollmentStudentReader
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

func NewRafehService(repo rafehRepository, students enrollmentStudentReader, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *RafehService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RafehService{repo: repo, students: students, audit: audit, validator: validate, logger: logger}
}

func (s *RafehService) Apply(ctx context.Context, req models.ApplyRafehRequest, actingUserID string) (*models.RafehAdjustment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rafeh payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}

	adj := &models.RafehAdjustment{
		StudentID: req.StudentID,
		Year:      req.Year,
		Amount:    req.Amount,
		Reason:    req.Reason,
		AppliedAt: time.Now().UTC(),
	}
	if actingUserID != "" {
		adj.AppliedBy = &actingUserID
	}
	if err := s.repo.Create(ctx, adj); err != nil {
		return nil, appErrors.Internal(err, "failed to apply rafeh")
	}

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionRafehApply, "rafeh_adjustments", adj.ID,
		map[string]interface{}{"studentId": adj.StudentID, "year": adj.Year, "amount": adj.Amount})
	return adj, nil
}

func (s *RafehService) ListForStudent(ctx context.Context, studentID string) ([]models.RafehAdjustment, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	list, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list rafeh adjustments")
	}
	if list == nil {
		list = []models.RafehAdjustment{}
	}
	return list, nil
}
