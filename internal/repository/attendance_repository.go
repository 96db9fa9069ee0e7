package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// AttendanceRepository persists per-enrollment attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create records an attendance mark.
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO attendance (id, enrollment_id, attended_on, status, remark, recorded_by, created_at)
        VALUES (:id, :enrollment_id, :attended_on, :status, :remark, :recorded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// ListByEnrollment returns marks for an enrollment by date.
func (r *AttendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error) {
	query := r.db.Rebind(`SELECT id, enrollment_id, attended_on, status, remark, recorded_by, created_at
        FROM attendance WHERE enrollment_id = ? ORDER BY attended_on`)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ListByStudent returns marks across all of a student's enrollments.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	query := r.db.Rebind(`SELECT a.id, a.enrollment_id, a.attended_on, a.status, a.remark, a.recorded_by, a.created_at
        FROM attendance a JOIN enrollments e ON e.id = a.enrollment_id
        WHERE e.student_id = ? ORDER BY a.attended_on, a.enrollment_id`)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return records, nil
}
