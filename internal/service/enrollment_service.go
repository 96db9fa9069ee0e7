package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type enrollmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID, semester string, year int) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateMarks(ctx context.Context, id string, assignment1, assignment2 *float64) error
	Delete(ctx context.Context, id string) error
}

type enrollmentStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService registers students in course offerings.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  enrollmentStudentReader
	courses   enrollmentCourseReader
	standings standingInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewEnrollmentService(repo enrollmentRepository, students enrollmentStudentReader, courses enrollmentCourseReader, standings standingInvalidator, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, courses: courses, standings: standings, validator: validate, logger: logger}
}

// Create enrolls a student. A student can take a course once per (semester, year).
func (s *EnrollmentService) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, mapLookupErr(err, "course not found", "failed to load course")
	}

	exists, err := s.repo.Exists(ctx, req.StudentID, req.CourseID, req.Semester, req.Year)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in this course for the term")
	}

	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Semester:  req.Semester,
		Year:      req.Year,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Internal(err, "failed to create enrollment")
	}
	if s.standings != nil {
		s.standings.InvalidateStanding(ctx, enrollment.StudentID)
	}
	return enrollment, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to load enrollment")
	}
	return enrollment, nil
}

// OwnerOf returns the student an enrollment belongs to.
func (s *EnrollmentService) OwnerOf(ctx context.Context, id string) (string, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return enrollment.StudentID, nil
}

// UpdateMarks sets the two legacy assignment marks. They do not feed the final grade.
func (s *EnrollmentService) UpdateMarks(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload")
	}
	if err := s.repo.UpdateMarks(ctx, id, req.Assignment1, req.Assignment2); err != nil {
		return nil, mapLookupErr(err, "enrollment not found", "failed to update marks")
	}
	return s.Get(ctx, id)
}

// Delete removes an enrollment with its components and records.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupErr(err, "enrollment not found", "failed to delete enrollment")
	}
	if s.standings != nil {
		s.standings.InvalidateStanding(ctx, enrollment.StudentID)
	}
	return nil
}
