package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const transcriptColumns = `id, student_id, content, status, file_path, error_message, generated_by, generated_at, finished_at`

// TranscriptRepository persists transcript snapshots and render state.
type TranscriptRepository struct {
	db *sqlx.DB
}

// NewTranscriptRepository constructs a TranscriptRepository.
func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create inserts a transcript row.
func (r *TranscriptRepository) Create(ctx context.Context, t *models.Transcript) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.GeneratedAt.IsZero() {
		t.GeneratedAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = models.TranscriptStatusQueued
	}
	const query = `INSERT INTO transcripts (id, student_id, content, status, file_path, error_message, generated_by, generated_at, finished_at)
        VALUES (:id, :student_id, :content, :status, :file_path, :error_message, :generated_by, :generated_at, :finished_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	return nil
}

// FindByID returns a transcript or sql.ErrNoRows.
func (r *TranscriptRepository) FindByID(ctx context.Context, id string) (*models.Transcript, error) {
	var t models.Transcript
	if err := r.db.GetContext(ctx, &t, r.db.Rebind("SELECT "+transcriptColumns+" FROM transcripts WHERE id = ?"), id); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByStudent returns a student's transcripts, newest first.
func (r *TranscriptRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Transcript, error) {
	var items []models.Transcript
	query := r.db.Rebind("SELECT " + transcriptColumns + " FROM transcripts WHERE student_id = ? ORDER BY generated_at DESC")
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	return items, nil
}

// UpdateStatus records render progress. finishedAt is set for terminal states.
func (r *TranscriptRepository) UpdateStatus(ctx context.Context, id string, status models.TranscriptStatus, filePath, errMsg *string, finishedAt *time.Time) error {
	query := r.db.Rebind(`UPDATE transcripts SET status = ?, file_path = ?, error_message = ?, finished_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, status, filePath, errMsg, finishedAt, id)
	if err != nil {
		return fmt.Errorf("update transcript status: %w", err)
	}
	return expectAffected(res)
}
