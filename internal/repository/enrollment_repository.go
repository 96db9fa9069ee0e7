package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// EnrollmentRepository persists student-course registrations.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository builds a new repository instance.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByID fetches an enrollment; sql.ErrNoRows when absent.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := r.db.Rebind(`SELECT id, student_id, course_id, semester, year, assignment1, assignment2, grade, created_at, updated_at
        FROM enrollments WHERE id = ?`)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListByStudentWithCourses returns a student's enrollments joined with the course catalog.
func (r *EnrollmentRepository) ListByStudentWithCourses(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error) {
	query := r.db.Rebind(`SELECT e.id, e.student_id, e.course_id, e.semester, e.year, e.assignment1, e.assignment2, e.grade,
        e.created_at, e.updated_at, c.course_code, c.title AS course_title, c.credits
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = ?
        ORDER BY e.year, e.semester, c.course_code`)
	var rows []models.EnrollmentWithCourse
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments for student: %w", err)
	}
	return rows, nil
}

// Exists reports whether the student is already enrolled in the course for the term.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID, semester string, year int) (bool, error) {
	query := r.db.Rebind(`SELECT 1 FROM enrollments WHERE student_id = ? AND course_id = ? AND semester = ? AND year = ? LIMIT 1`)
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID, semester, year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment with no marks and no grade.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, student_id, course_id, semester, year, assignment1, assignment2, grade, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :semester, :year, :assignment1, :assignment2, :grade, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateMarks stores the two legacy marks.
func (r *EnrollmentRepository) UpdateMarks(ctx context.Context, id string, assignment1, assignment2 *float64) error {
	query := r.db.Rebind(`UPDATE enrollments SET assignment1 = ?, assignment2 = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, assignment1, assignment2, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update enrollment marks: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an enrollment; its components cascade.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM enrollments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return expectAffected(res)
}

// expectAffected maps a zero-row write to sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
