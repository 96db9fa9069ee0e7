package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepositoryCurriculum(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows([]string{"semester_label", "id", "course_code", "title", "credits", "description", "created_at", "updated_at"}).
		AddRow("Sem 1", "c1", "MATH101", "Calculus I", 3, nil, time.Now(), time.Now()).
		AddRow("Sem 2", "c2", "PHYS101", "Physics I", 3, nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pc.program_id = ? AND pc.level = ? ORDER BY pc.semester_label, c.course_code")).
		WithArgs("p1", 1).
		WillReturnRows(rows)

	entries, err := repo.Curriculum(context.Background(), "p1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Sem 1", entries[0].SemesterLabel)
	assert.Equal(t, "MATH101", entries[0].Course.CourseCode)
	assert.Equal(t, "PHYS101", entries[1].Course.CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryCurriculumEmpty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery("FROM program_courses pc").
		WithArgs("unknown", 4).
		WillReturnRows(sqlmock.NewRows([]string{"semester_label", "id", "course_code", "title", "credits", "description", "created_at", "updated_at"}))

	entries, err := repo.Curriculum(context.Background(), "unknown", 4)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestProgramRepositoryListOrderedByName(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM programs ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "created_at"}).
			AddRow("p1", "AUTOTRON", "Autotronics Technology", nil, time.Now()))

	programs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, programs, 1)
}
