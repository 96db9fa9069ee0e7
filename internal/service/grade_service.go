package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/grading"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type gradeEnrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type gradeComponentStore interface {
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.GradeComponent, error)
	ReplaceForEnrollment(ctx context.Context, enrollmentID string, components []models.GradeComponent, grade float64) error
}

// standingInvalidator drops cached standings after a grade or enrollment changes.
type standingInvalidator interface {
	InvalidateStanding(ctx context.Context, studentID string)
}

// GradeConfig tunes input checks applied before components are stored.
type GradeConfig struct {
	RejectOutOfRange bool
}

// GradeService saves grade components and keeps the enrollment's final grade in step.
type GradeService struct {
	enrollments gradeEnrollmentReader
	components  gradeComponentStore
	standings   standingInvalidator
	audit       auditRecorder
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	config      GradeConfig
	now         func() time.Time
}

func NewGradeService(enrollments gradeEnrollmentReader, components gradeComponentStore, standings standingInvalidator, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config GradeConfig) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		enrollments: enrollments,
		components:  components,
		standings:   standings,
		audit:       audit,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Components lists the current components of an enrollment in submission order.
func (s *GradeService) Components(ctx context.Context, enrollmentID string) ([]models.GradeComponent, error) {
	if _, err := s.enrollments.FindByID(ctx, enrollmentID); err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}
	components, err := s.components.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list grade components")
	}
	if components == nil {
		components = []models.GradeComponent{}
	}
	return components, nil
}

// SaveComponents replaces the enrollment's whole component set and stores the
// recomputed final grade in the same transaction. Saving the same set twice
// yields the same grade. The audit entry is written after commit and its
// failure does not fail the save.
func (s *GradeService) SaveComponents(ctx context.Context, enrollmentID string, inputs []models.GradeComponentInput, actingUserID string) (*models.SaveGradeComponentsResult, error) {
	if err := s.validator.Struct(models.SaveGradeComponentsRequest{Components: inputs}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade components")
	}

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}

	if s.config.RejectOutOfRange {
		for _, in := range inputs {
			if in.Score != nil && in.MaxScore > 0 && *in.Score > in.MaxScore {
				return nil, appErrors.Clone(appErrors.ErrOutOfRange, "score of "+in.ComponentType+" exceeds its max score")
			}
		}
	}

	var recordedBy *string
	if actingUserID != "" {
		recordedBy = &actingUserID
	}
	recordedAt := s.now()
	components := make([]models.GradeComponent, len(inputs))
	for i, in := range inputs {
		components[i] = models.GradeComponent{
			ID:            uuid.NewString(),
			EnrollmentID:  enrollmentID,
			ComponentType: in.ComponentType,
			Weight:        in.Weight,
			MaxScore:      in.MaxScore,
			Score:         in.Score,
			RecordedBy:    recordedBy,
			RecordedAt:    recordedAt,
		}
	}

	finalGrade := grading.FinalGrade(components)
	if err := s.components.ReplaceForEnrollment(ctx, enrollmentID, components, finalGrade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Internal(err, "failed to save grade components")
	}
	s.metrics.IncGradeRecompute()

	if s.standings != nil {
		s.standings.InvalidateStanding(ctx, enrollment.StudentID)
	}

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionGradeComponentsUpdated, "enrollments", enrollmentID,
		map[string]interface{}{"enrollmentId": enrollmentID, "finalGrade": finalGrade})

	s.logger.Debug("grade components saved",
		zap.String("enrollment_id", enrollmentID),
		zap.Int("components", len(components)),
		zap.Float64("final_grade", finalGrade))

	return &models.SaveGradeComponentsResult{
		EnrollmentID: enrollmentID,
		FinalGrade:   finalGrade,
		Components:   components,
	}, nil
}
