package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// TrainingRepository persists internship placements.
type TrainingRepository struct {
	db *sqlx.DB
}

// NewTrainingRepository constructs a TrainingRepository.
func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Create stores a training record.
func (r *TrainingRepository) Create(ctx context.Context, rec *models.TrainingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO training_records (id, student_id, company, start_date, end_date, supervisor, grade, status, created_at)
        VALUES (:id, :student_id, :company, :start_date, :end_date, :supervisor, :grade, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create training record: %w", err)
	}
	return nil
}

// ListByStudent returns a student's placements by start date.
func (r *TrainingRepository) ListByStudent(ctx context.Context, studentID string) ([]models.TrainingRecord, error) {
	query := r.db.Rebind(`SELECT id, student_id, company, start_date, end_date, supervisor, grade, status, created_at
        FROM training_records WHERE student_id = ? ORDER BY start_date`)
	var records []models.TrainingRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list training records: %w", err)
	}
	return records, nil
}
