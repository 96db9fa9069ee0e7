package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// RafehRepository persists consolation mark adjustments.
type RafehRepository struct {
	db *sqlx.DB
}

// NewRafehRepository constructs a RafehRepository.
func NewRafehRepository(db *sqlx.DB) *RafehRepository {
	return &RafehRepository{db: db}
}

// Create stores an adjustment.
func (r *RafehRepository) Create(ctx context.Context, adj *models.RafehAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	if adj.AppliedAt.IsZero() {
		adj.AppliedAt = time.Now().UTC()
	}
	const query = `INSERT INTO rafeh_adjustments (id, student_id, year, amount, reason, applied_by, applied_at)
        VALUES (:id, :student_id, :year, :amount, :reason, :applied_by, :applied_at)`
	if _, err := r.db.NamedExecContext(ctx, query, adj); err != nil {
		return fmt.Errorf("create rafeh adjustment: %w", err)
	}
	return nil
}

// ListByStudent returns a student's adjustments, newest year first.
func (r *RafehRepository) ListByStudent(ctx context.Context, studentID string) ([]models.RafehAdjustment, error) {
	query := r.db.Rebind(`SELECT id, student_id, year, amount, reason, applied_by, applied_at
        FROM rafeh_adjustments WHERE student_id = ? ORDER BY year DESC, applied_at DESC`)
	var adjustments []models.RafehAdjustment
	if err := r.db.SelectContext(ctx, &adjustments, query, studentID); err != nil {
		return nil, fmt.Errorf("list rafeh adjustments: %w", err)
	}
	return adjustments, nil
}
