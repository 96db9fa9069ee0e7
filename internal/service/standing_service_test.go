package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func enrolled(id, code string, credits int, semester string, year int, grade *float64) models.EnrollmentWithCourse {
	return models.EnrollmentWithCourse{
		Enrollment: models.Enrollment{ID: id, StudentID: "stu-1", Semester: semester, Year: year, Grade: grade},
		CourseCode: code,
		Credits:    credits,
	}
}

func newStandingFixture(cache *CacheService) (*StandingService, *mockStudentRepo, *mockEnrollmentRepo, *mockAudit) {
	students := &mockStudentRepo{students: map[string]*models.Student{"stu-1": {ID: "stu-1", StudentCode: "S001"}}}
	enrollments := &mockEnrollmentRepo{byStudent: map[string][]models.EnrollmentWithCourse{
		"stu-1": {
			enrolled("e1", "MATH101", 3, "Fall", 2024, floatPtr(84)),
			enrolled("e2", "PHY101", 4, "Fall", 2024, floatPtr(55)),
			enrolled("e3", "CS101", 3, "Spring", 2023, floatPtr(92)),
			enrolled("e4", "ENG101", 2, "Spring", 2025, nil),
		},
	}}
	audit := &mockAudit{}
	return NewStandingService(students, enrollments, cache, audit, time.Minute, zap.NewNop()), students, enrollments, audit
}

func TestStandingServiceComputes(t *testing.T) {
	svc, _, _, _ := newStandingFixture(nil)

	standing, cached, err := svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, cached)

	require.NotNil(t, standing.Overall.GPA)
	// (3*3 + 0*4 + 4*3) / 10
	assert.InDelta(t, 2.1, *standing.Overall.GPA, 1e-9)
	assert.Equal(t, 10, standing.Overall.TotalCredits)
	assert.Equal(t, 6, standing.Overall.PassedCredits)

	require.Len(t, standing.Terms, 3)
	assert.Equal(t, 2023, standing.Terms[0].Year)
	assert.Equal(t, 2024, standing.Terms[1].Year)
	assert.InDelta(t, 9.0/7.0, *standing.Terms[1].GPA, 1e-9)
	assert.Equal(t, 2025, standing.Terms[2].Year)
	assert.Nil(t, standing.Terms[2].GPA)

	require.Len(t, standing.Courses, 4)
	assert.Equal(t, 3.0, *standing.Courses[0].Points)
	assert.Nil(t, standing.Courses[3].Points)
}

func TestStandingServiceNoGrades(t *testing.T) {
	svc, _, enrollments, _ := newStandingFixture(nil)
	enrollments.byStudent["stu-1"] = nil

	standing, _, err := svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Nil(t, standing.Overall.GPA)
	assert.NotNil(t, standing.Terms)
	assert.NotNil(t, standing.Courses)
}

func TestStandingServiceUnknownStudent(t *testing.T) {
	svc, _, _, _ := newStandingFixture(nil)

	_, _, err := svc.Standing(context.Background(), "nobody")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStandingServiceCaches(t *testing.T) {
	repo := &memoryCache{}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc, _, enrollments, _ := newStandingFixture(cache)

	_, cached, err := svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.InDelta(t, 2.1, *second.Overall.GPA, 1e-9)
	assert.Equal(t, 1, enrollments.listCalls)

	svc.InvalidateStanding(context.Background(), "stu-1")
	_, cached, err = svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, enrollments.listCalls)

	svc.InvalidateAll(context.Background())
	_, cached, err = svc.Standing(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, enrollments.listCalls)
}

func TestStandingServiceSyncSnapshot(t *testing.T) {
	svc, students, _, audit := newStandingFixture(nil)

	standing, err := svc.SyncSnapshot(context.Background(), "stu-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 6, standing.Overall.PassedCredits)

	snap := students.snapshots["stu-1"]
	assert.Equal(t, 6.0, snap[0])
	assert.InDelta(t, 2.1, snap[1], 1e-9)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionStandingSync, audit.entries[0].Action)
	assert.Equal(t, "students", audit.entries[0].Table)
}
