package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func newCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: map[string]*models.Course{
		"course-math101": {ID: "course-math101", CourseCode: "MATH101", Title: "Calculus I", Credits: 3},
	}}
}

func TestCourseServiceCreate(t *testing.T) {
	repo := newCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Create(context.Background(), models.CreateCourseRequest{CourseCode: " cs201 ", Title: "Data Structures", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, "CS201", course.CourseCode)
	assert.Len(t, repo.created, 1)

	_, err = svc.Create(context.Background(), models.CreateCourseRequest{CourseCode: "math101", Title: "Dup", Credits: 3})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(context.Background(), models.CreateCourseRequest{CourseCode: "X1", Title: "", Credits: 3})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCourseServiceLookups(t *testing.T) {
	svc := NewCourseService(newCourseRepo(), nil, nil)

	course, err := svc.GetByCode(context.Background(), "math101")
	require.NoError(t, err)
	assert.Equal(t, "course-math101", course.ID)

	_, err = svc.Get(context.Background(), "course-nope")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	list, pagination, err := svc.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}
