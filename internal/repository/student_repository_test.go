package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

var studentRowColumns = []string{"id", "student_code", "first_name", "last_name", "email", "phone", "date_of_birth", "gender", "address",
	"program", "college", "level", "entry_type", "academic_status", "credits_completed", "cgpa", "created_at", "updated_at"}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows(studentRowColumns).
		AddRow("s1", "ST-001", "Amal", "Saleh", nil, nil, nil, nil, nil, "Mechatronics Technology", nil, 2, nil, "active", 30, 3.1, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 AND level = ? AND (LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(student_code) LIKE ?) ORDER BY student_code ASC LIMIT 20 OFFSET 0")).
		WithArgs(2, "%amal%", "%amal%", "%amal%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM students WHERE 1=1 AND level = ?")).
		WithArgs(2, "%amal%", "%amal%", "%amal%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Level: 2, Search: "Amal"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ST-001", students[0].StudentCode)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	args := make([]driver.Value, 18)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	mock.ExpectExec("INSERT INTO students").
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{StudentCode: "ST-002", FirstName: "Mona", LastName: "Ali", Level: 1, AcademicStatus: models.AcademicStatusActive}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE student_code = ? AND id <> ? LIMIT 1")).
		WithArgs("ST-001", "s1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByCode(context.Background(), "ST-001", "s1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(studentRowColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
