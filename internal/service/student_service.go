package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByCode(ctx context.Context, code string) (*models.Student, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type studentCourseReader interface {
	ListByStudentWithCourses(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error)
}

// StudentService handles student registration and lookup.
type StudentService struct {
	repo        studentRepository
	enrollments studentCourseReader
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewStudentService(repo studentRepository, enrollments studentCourseReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validate, logger: logger}
}

// List returns a page of students and its pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	return student, nil
}

func (s *StudentService) GetByCode(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.repo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a student. Student codes are unique.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	code := strings.TrimSpace(req.StudentCode)
	exists, err := s.repo.ExistsByCode(ctx, code, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to validate student code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student code already used")
	}

	status := req.AcademicStatus
	if status == "" {
		status = models.AcademicStatusActive
	}
	student := &models.Student{
		StudentCode:    code,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		Program:        req.Program,
		College:        req.College,
		Level:          req.Level,
		EntryType:      req.EntryType,
		AcademicStatus: status,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}
	return student, nil
}

// Update replaces the editable fields. The code and the credit/CGPA snapshot are left alone.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.Phone = req.Phone
	student.DateOfBirth = req.DateOfBirth
	student.Gender = req.Gender
	student.Address = req.Address
	student.Program = req.Program
	student.College = req.College
	student.Level = req.Level
	student.EntryType = req.EntryType
	student.AcademicStatus = req.AcademicStatus

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to update student")
	}
	return student, nil
}

// Courses lists the student's enrollments with course details and grades.
func (s *StudentService) Courses(ctx context.Context, id string) ([]models.EnrollmentWithCourse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	courses, err := s.enrollments.ListByStudentWithCourses(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list student courses")
	}
	if courses == nil {
		courses = []models.EnrollmentWithCourse{}
	}
	return courses, nil
}
