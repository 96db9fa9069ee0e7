package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

type auditEntry struct {
	UserID   string
	Action   string
	Table    string
	TargetID string
	Diff     interface{}
}

type mockAudit struct {
	entries []auditEntry
	err     error
}

func (m *mockAudit) Record(ctx context.Context, userID, action, targetTable, targetID string, diff interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, auditEntry{UserID: userID, Action: action, Table: targetTable, TargetID: targetID, Diff: diff})
	return nil
}

type mockStudentRepo struct {
	students  map[string]*models.Student
	list      []models.Student
	total     int
	findErr   error
	createErr error
	exists    bool
	created   []*models.Student
	updated   []*models.Student
	snapshots map[string][2]float64
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.list, m.total, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if s, ok := m.students[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	for _, s := range m.students {
		if s.StudentCode == code {
			clone := *s
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return m.exists, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, student)
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.updated = append(m.updated, student)
	return nil
}

func (m *mockStudentRepo) UpdateSnapshot(ctx context.Context, id string, creditsCompleted int, cgpa float64) error {
	if m.snapshots == nil {
		m.snapshots = map[string][2]float64{}
	}
	m.snapshots[id] = [2]float64{float64(creditsCompleted), cgpa}
	return nil
}

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	byStudent   map[string][]models.EnrollmentWithCourse
	findErr     error
	listErr     error
	exists      bool
	created     []*models.Enrollment
	deleted     []string
	listCalls   int
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if e, ok := m.enrollments[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ListByStudentWithCourses(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byStudent[studentID], nil
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, courseID, semester string, year int) (bool, error) {
	return m.exists, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.created = append(m.created, enrollment)
	if m.byStudent == nil {
		m.byStudent = map[string][]models.EnrollmentWithCourse{}
	}
	m.byStudent[enrollment.StudentID] = append(m.byStudent[enrollment.StudentID], models.EnrollmentWithCourse{Enrollment: *enrollment})
	return nil
}

func (m *mockEnrollmentRepo) UpdateMarks(ctx context.Context, id string, assignment1, assignment2 *float64) error {
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Assignment1, e.Assignment2 = assignment1, assignment2
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.enrollments[id]; !ok {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCourseRepo struct {
	courses map[string]*models.Course
	created []*models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.CourseCode == code {
			clone := *c
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.created = append(m.created, course)
	return nil
}

type mockStandingInvalidator struct {
	invalidated []string
}

func (m *mockStandingInvalidator) InvalidateStanding(ctx context.Context, studentID string) {
	m.invalidated = append(m.invalidated, studentID)
}

type memoryCache struct {
	values map[string]interface{}
	sets   int
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return errCacheMiss
	}
	switch d := dest.(type) {
	case *models.AcademicStanding:
		*d = v.(models.AcademicStanding)
	}
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	switch v := value.(type) {
	case *models.AcademicStanding:
		m.values[key] = *v
	default:
		m.values[key] = v
	}
	m.sets++
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = map[string]interface{}{}
	return nil
}

var errCacheMiss = appErrors.ErrCacheMiss
