package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// ProgramRepository reads programs and their curriculum mappings.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns all programs ordered by name.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	const query = `SELECT id, code, name, description, created_at FROM programs ORDER BY name`
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// FindByID returns a program or sql.ErrNoRows.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	query := r.db.Rebind(`SELECT id, code, name, description, created_at FROM programs WHERE id = ?`)
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

type curriculumRow struct {
	SemesterLabel string    `db:"semester_label"`
	ID            string    `db:"id"`
	CourseCode    string    `db:"course_code"`
	Title         string    `db:"title"`
	Credits       int       `db:"credits"`
	Description   *string   `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Curriculum returns the courses mapped to a program at a level, ordered by
// semester label then course code. An unknown program yields an empty slice.
func (r *ProgramRepository) Curriculum(ctx context.Context, programID string, level int) ([]models.CurriculumEntry, error) {
	query := r.db.Rebind(`SELECT pc.semester_label, c.id, c.course_code, c.title, c.credits, c.description, c.created_at, c.updated_at
        FROM program_courses pc
        JOIN courses c ON c.id = pc.course_id
        WHERE pc.program_id = ? AND pc.level = ?
        ORDER BY pc.semester_label, c.course_code`)
	var rows []curriculumRow
	if err := r.db.SelectContext(ctx, &rows, query, programID, level); err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}

	entries := make([]models.CurriculumEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.CurriculumEntry{
			SemesterLabel: row.SemesterLabel,
			Course: models.Course{
				ID:          row.ID,
				CourseCode:  row.CourseCode,
				Title:       row.Title,
				Credits:     row.Credits,
				Description: row.Description,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
		})
	}
	return entries, nil
}
