package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestGradeComponentRepositoryListByEnrollment(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeComponentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "component_type", "weight", "max_score", "score", "position", "recorded_by", "recorded_at"}).
		AddRow("g1", "e1", "assignment", 20.0, 20.0, 16.0, 0, "u1", time.Now()).
		AddRow("g2", "e1", "final", 80.0, 100.0, nil, 1, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM grade_components WHERE enrollment_id = ? ORDER BY position, id")).
		WithArgs("e1").
		WillReturnRows(rows)

	components, err := repo.ListByEnrollment(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, components, 2)
	require.NotNil(t, components[0].Score)
	assert.Equal(t, 16.0, *components[0].Score)
	assert.Nil(t, components[1].Score)
}

func TestGradeComponentRepositoryReplaceCommits(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeComponentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_components WHERE enrollment_id = ?")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO grade_components").
		WithArgs(sqlmock.AnyArg(), "e1", "assignment", 20.0, 20.0, 16.0, 0, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO grade_components").
		WithArgs(sqlmock.AnyArg(), "e1", "final", 80.0, 100.0, 85.0, 1, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET grade = ?, updated_at = ? WHERE id = ?")).
		WithArgs(84.0, sqlmock.AnyArg(), "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	components := []models.GradeComponent{
		{ComponentType: "assignment", Weight: 20, MaxScore: 20, Score: floatPtr(16)},
		{ComponentType: "final", Weight: 80, MaxScore: 100, Score: floatPtr(85)},
	}
	require.NoError(t, repo.ReplaceForEnrollment(context.Background(), "e1", components, 84))
	assert.NotEmpty(t, components[0].ID)
	assert.Equal(t, "e1", components[1].EnrollmentID)
	assert.Equal(t, 1, components[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeComponentRepositoryReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeComponentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM grade_components").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO grade_components").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceForEnrollment(context.Background(), "e1", []models.GradeComponent{{ComponentType: "quiz", Weight: 10, MaxScore: 10}}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert grade component")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeComponentRepositoryReplaceRollsBackWhenEnrollmentMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewGradeComponentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM grade_components").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE enrollments SET grade").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReplaceForEnrollment(context.Background(), "gone", nil, 0)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
