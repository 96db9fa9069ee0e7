package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type attendanceRepository interface {
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
}

type financialRepository interface {
	Create(ctx context.Context, rec *models.FinancialRecord) error
	ListByStudent(ctx context.Context, studentID string) ([]models.FinancialRecord, error)
}

type trainingRepository interface {
	Create(ctx context.Context, rec *models.TrainingRecord) error
	ListByStudent(ctx context.Context, studentID string) ([]models.TrainingRecord, error)
}

// RecordsService keeps the per-student side records: attendance, fees and training placements.
type RecordsService struct {
	attendance  attendanceRepository
	financial   financialRepository
	training    trainingRepository
	students    enrollmentStudentReader
	enrollments gradeEnrollmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewRecordsService(attendance attendanceRepository, financial financialRepository, training trainingRepository, students enrollmentStudentReader, enrollments gradeEnrollmentReader, validate *validator.Validate, logger *zap.Logger) *RecordsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsService{
		attendance:  attendance,
		financial:   financial,
		training:    training,
		students:    students,
		enrollments: enrollments,
		validator:   validate,
		logger:      logger,
	}
}

func (s *RecordsService) RecordAttendance(ctx context.Context, req models.CreateAttendanceRequest, actingUserID string) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if _, err := s.enrollments.FindByID(ctx, req.EnrollmentID); err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}
	rec := &models.AttendanceRecord{
		EnrollmentID: req.EnrollmentID,
		AttendedOn:   req.AttendedOn,
		Status:       req.Status,
		Remark:       req.Remark,
	}
	if actingUserID != "" {
		rec.RecordedBy = &actingUserID
	}
	if err := s.attendance.Create(ctx, rec); err != nil {
		return nil, appErrors.Internal(err, "failed to record attendance")
	}
	return rec, nil
}

// EnrollmentAttendance lists an enrollment's attendance and tallies each status.
func (s *RecordsService) EnrollmentAttendance(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, models.AttendanceSummary, error) {
	summary := models.AttendanceSummary{EnrollmentID: enrollmentID}
	if _, err := s.enrollments.FindByID(ctx, enrollmentID); err != nil {
		return nil, summary, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}
	records, err := s.attendance.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, summary, appErrors.Internal(err, "failed to list attendance")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		case models.AttendanceExcused:
			summary.Excused++
		}
	}
	return records, summary, nil
}

func (s *RecordsService) StudentAttendance(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

func (s *RecordsService) AddFinancialRecord(ctx context.Context, studentID string, req models.CreateFinancialRecordRequest) (*models.FinancialRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid financial record payload")
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	rec := &models.FinancialRecord{
		StudentID:  studentID,
		RecordType: req.RecordType,
		Amount:     req.Amount,
		Semester:   req.Semester,
		Year:       req.Year,
		Status:     req.Status,
		DueDate:    req.DueDate,
	}
	if err := s.financial.Create(ctx, rec); err != nil {
		return nil, appErrors.Internal(err, "failed to add financial record")
	}
	return rec, nil
}

func (s *RecordsService) FinancialRecords(ctx context.Context, studentID string) ([]models.FinancialRecord, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	records, err := s.financial.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list financial records")
	}
	if records == nil {
		records = []models.FinancialRecord{}
	}
	return records, nil
}

func (s *RecordsService) AddTrainingRecord(ctx context.Context, studentID string, req models.CreateTrainingRecordRequest) (*models.TrainingRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training record payload")
	}
	if req.EndDate != nil && *req.EndDate < req.StartDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	rec := &models.TrainingRecord{
		StudentID:  studentID,
		Company:    req.Company,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Supervisor: req.Supervisor,
		Grade:      req.Grade,
		Status:     req.Status,
	}
	if err := s.training.Create(ctx, rec); err != nil {
		return nil, appErrors.Internal(err, "failed to add training record")
	}
	return rec, nil
}

func (s *RecordsService) TrainingRecords(ctx context.Context, studentID string) ([]models.TrainingRecord, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	records, err := s.training.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list training records")
	}
	if records == nil {
		records = []models.TrainingRecord{}
	}
	return records, nil
}

func (s *RecordsService) requireStudent(ctx context.Context, studentID string) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return mapLookupErr(err, "student not found", "failed to load student")
	}
	return nil
}
