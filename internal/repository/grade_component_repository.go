package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// GradeComponentRepository manages the weighted assessment pieces of enrollments.
type GradeComponentRepository struct {
	db *sqlx.DB
}

// NewGradeComponentRepository creates a repository instance.
func NewGradeComponentRepository(db *sqlx.DB) *GradeComponentRepository {
	return &GradeComponentRepository{db: db}
}

// ListByEnrollment returns the components of one enrollment in the order they were submitted.
func (r *GradeComponentRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.GradeComponent, error) {
	query := r.db.Rebind(`SELECT id, enrollment_id, component_type, weight, max_score, score, position, recorded_by, recorded_at
        FROM grade_components WHERE enrollment_id = ? ORDER BY position, id`)
	var components []models.GradeComponent
	if err := r.db.SelectContext(ctx, &components, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list grade components: %w", err)
	}
	return components, nil
}

// ReplaceForEnrollment deletes every component of the enrollment, inserts the new
// set and stores grade on the enrollment in a single transaction. Either all of it
// is persisted or none of it is.
func (r *GradeComponentRepository) ReplaceForEnrollment(ctx context.Context, enrollmentID string, components []models.GradeComponent, grade float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace grade components: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM grade_components WHERE enrollment_id = ?`), enrollmentID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete grade components: %w", err)
	}

	now := time.Now().UTC()
	for i := range components {
		if components[i].ID == "" {
			components[i].ID = uuid.NewString()
		}
		components[i].EnrollmentID = enrollmentID
		components[i].Position = i
		if components[i].RecordedAt.IsZero() {
			components[i].RecordedAt = now
		}
		const query = `INSERT INTO grade_components (id, enrollment_id, component_type, weight, max_score, score, position, recorded_by, recorded_at)
                VALUES (:id, :enrollment_id, :component_type, :weight, :max_score, :score, :position, :recorded_by, :recorded_at)`
		if _, err := tx.NamedExecContext(ctx, query, components[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert grade component: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE enrollments SET grade = ?, updated_at = ? WHERE id = ?`), grade, now, enrollmentID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update enrollment grade: %w", err)
	}
	if err := expectAffected(res); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade components: %w", err)
	}
	return nil
}
