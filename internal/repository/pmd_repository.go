package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const pmdColumns = `id, enrollment_id, pmd_type, doc_url, submitted_by, submitted_at, approved_by, approved_at`

// PmdRepository persists medical/deferred/pass requests.
type PmdRepository struct {
	db *sqlx.DB
}

// NewPmdRepository constructs a PmdRepository.
func NewPmdRepository(db *sqlx.DB) *PmdRepository {
	return &PmdRepository{db: db}
}

// Create files a new request.
func (r *PmdRepository) Create(ctx context.Context, record *models.PmdRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO pmd_records (id, enrollment_id, pmd_type, doc_url, submitted_by, submitted_at, approved_by, approved_at)
        VALUES (:id, :enrollment_id, :pmd_type, :doc_url, :submitted_by, :submitted_at, :approved_by, :approved_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create pmd record: %w", err)
	}
	return nil
}

// FindByID returns a request or sql.ErrNoRows.
func (r *PmdRepository) FindByID(ctx context.Context, id string) (*models.PmdRecord, error) {
	var record models.PmdRecord
	if err := r.db.GetContext(ctx, &record, r.db.Rebind("SELECT "+pmdColumns+" FROM pmd_records WHERE id = ?"), id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Approve marks a pending request approved. Already-approved or unknown
// requests report sql.ErrNoRows.
func (r *PmdRepository) Approve(ctx context.Context, id, approvedBy string, at time.Time) error {
	query := r.db.Rebind(`UPDATE pmd_records SET approved_by = ?, approved_at = ? WHERE id = ? AND approved_at IS NULL`)
	res, err := r.db.ExecContext(ctx, query, optionalString(approvedBy), at, id)
	if err != nil {
		return fmt.Errorf("approve pmd record: %w", err)
	}
	return expectAffected(res)
}

// ListPending returns unapproved requests, oldest first.
func (r *PmdRepository) ListPending(ctx context.Context) ([]models.PmdRecord, error) {
	var records []models.PmdRecord
	query := "SELECT " + pmdColumns + " FROM pmd_records WHERE approved_at IS NULL ORDER BY submitted_at"
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list pending pmd records: %w", err)
	}
	return records, nil
}

// ListByEnrollment returns every request filed for an enrollment.
func (r *PmdRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.PmdRecord, error) {
	var records []models.PmdRecord
	query := r.db.Rebind("SELECT " + pmdColumns + " FROM pmd_records WHERE enrollment_id = ? ORDER BY submitted_at")
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list pmd records: %w", err)
	}
	return records, nil
}
