package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/grading"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type standingStudentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateSnapshot(ctx context.Context, id string, creditsCompleted int, cgpa float64) error
}

type standingEnrollmentReader interface {
	ListByStudentWithCourses(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error)
}

// StandingService computes a student's GPA, CGPA and per-term standings from
// enrollment grades. Results may be cached; the cache is dropped whenever a
// grade of the student changes.
type StandingService struct {
	students    standingStudentStore
	enrollments standingEnrollmentReader
	cache       *CacheService
	audit       auditRecorder
	ttl         time.Duration
	logger      *zap.Logger
}

func NewStandingService(students standingStudentStore, enrollments standingEnrollmentReader, cache *CacheService, audit auditRecorder, ttl time.Duration, logger *zap.Logger) *StandingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandingService{students: students, enrollments: enrollments, cache: cache, audit: audit, ttl: ttl, logger: logger}
}

func standingCacheKey(studentID string) string {
	return "standing:" + studentID
}

// Standing returns the academic standing of a student and whether it came from cache.
func (s *StandingService) Standing(ctx context.Context, studentID string) (*models.AcademicStanding, bool, error) {
	var cached models.AcademicStanding
	if hit, _ := s.cache.Get(ctx, standingCacheKey(studentID), &cached); hit {
		return &cached, true, nil
	}

	standing, err := s.compute(ctx, studentID)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, standingCacheKey(studentID), standing, s.ttl)
	return standing, false, nil
}

// InvalidateStanding drops the cached standing of a student.
func (s *StandingService) InvalidateStanding(ctx context.Context, studentID string) {
	_ = s.cache.Invalidate(ctx, standingCacheKey(studentID))
}

// InvalidateAll drops every cached standing. Called on startup because grades
// may have changed while the process was down.
func (s *StandingService) InvalidateAll(ctx context.Context) {
	_ = s.cache.InvalidatePattern(ctx, standingCacheKey("*"))
}

// SyncSnapshot recomputes the standing and copies CGPA and passed credits into
// the student's informational snapshot columns. A student without graded
// credits gets a CGPA of 0 in the snapshot.
func (s *StandingService) SyncSnapshot(ctx context.Context, studentID, actingUserID string) (*models.AcademicStanding, error) {
	standing, err := s.compute(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var cgpa float64
	if standing.Overall.GPA != nil {
		cgpa = *standing.Overall.GPA
	}
	if err := s.students.UpdateSnapshot(ctx, studentID, standing.Overall.PassedCredits, cgpa); err != nil {
		return nil, appErrors.Internal(err, "failed to update student snapshot")
	}
	_ = s.cache.Set(ctx, standingCacheKey(studentID), standing, s.ttl)

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionStandingSync, "students", studentID,
		map[string]interface{}{"cgpa": cgpa, "creditsCompleted": standing.Overall.PassedCredits})
	return standing, nil
}

func (s *StandingService) compute(ctx context.Context, studentID string) (*models.AcademicStanding, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	entries, err := s.enrollments.ListByStudentWithCourses(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load enrollments")
	}

	courses := make([]models.StandingCourse, 0, len(entries))
	for _, e := range entries {
		row := models.StandingCourse{
			EnrollmentID: e.ID,
			CourseCode:   e.CourseCode,
			CourseTitle:  e.CourseTitle,
			Credits:      e.Credits,
			Semester:     e.Semester,
			Year:         e.Year,
			Grade:        e.Grade,
		}
		if e.Grade != nil {
			points := grading.Points(*e.Grade)
			row.Points = &points
		}
		courses = append(courses, row)
	}

	return &models.AcademicStanding{
		StudentID: studentID,
		Overall:   grading.Rollup(entries),
		Terms:     grading.Terms(entries),
		Courses:   courses,
	}, nil
}
