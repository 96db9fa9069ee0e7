package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentRepositoryListByStudentWithCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "semester", "year", "assignment1", "assignment2", "grade",
		"created_at", "updated_at", "course_code", "course_title", "credits"}).
		AddRow("e1", "s1", "c1", "Semester 1", 2024, nil, nil, 92.0, time.Now(), time.Now(), "MATH101", "Calculus I", 3).
		AddRow("e2", "s1", "c2", "Semester 1", 2024, 8.0, nil, nil, time.Now(), time.Now(), "PHYS101", "Physics", 3)
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE e.student_id = ?")).
		WithArgs("s1").
		WillReturnRows(rows)

	result, err := repo.ListByStudentWithCourses(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.NotNil(t, result[0].Grade)
	assert.Equal(t, 92.0, *result[0].Grade)
	assert.Equal(t, 3, result[0].Credits)
	assert.Nil(t, result[1].Grade)
	require.NotNil(t, result[1].Assignment1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateMarksMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET assignment1 = ?")).
		WithArgs(84.0, nil, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMarks(context.Background(), "missing", floatPtr(84), nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE student_id = ?")).
		WithArgs("s1", "c1", "Semester 1", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "s1", "c1", "Semester 1", 2024)
	require.NoError(t, err)
	assert.True(t, exists)
}
