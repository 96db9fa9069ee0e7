package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// FinancialRepository persists fee and payment entries.
type FinancialRepository struct {
	db *sqlx.DB
}

// NewFinancialRepository constructs a FinancialRepository.
func NewFinancialRepository(db *sqlx.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// Create stores a financial record.
func (r *FinancialRepository) Create(ctx context.Context, rec *models.FinancialRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO financial_records (id, student_id, record_type, amount, semester, year, status, due_date, created_at)
        VALUES (:id, :student_id, :record_type, :amount, :semester, :year, :status, :due_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create financial record: %w", err)
	}
	return nil
}

// ListByStudent returns a student's financial records, newest first.
func (r *FinancialRepository) ListByStudent(ctx context.Context, studentID string) ([]models.FinancialRecord, error) {
	query := r.db.Rebind(`SELECT id, student_id, record_type, amount, semester, year, status, due_date, created_at
        FROM financial_records WHERE student_id = ? ORDER BY created_at DESC`)
	var records []models.FinancialRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list financial records: %w", err)
	}
	return records, nil
}
