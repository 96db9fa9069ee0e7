package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const studentColumns = `id, student_code, first_name, last_name, email, phone, date_of_birth, gender, address,
        program, college, level, entry_type, academic_status, credits_completed, cgpa, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Program != "" {
		conditions = append(conditions, "program = ?")
		args = append(args, filter.Program)
	}
	if filter.Level > 0 {
		conditions = append(conditions, "level = ?")
		args = append(args, filter.Level)
	}
	if filter.AcademicStatus != "" {
		conditions = append(conditions, "academic_status = ?")
		args = append(args, filter.AcademicStatus)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(student_code) LIKE ?)")
		term := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, term, term, term)
	}

	where := strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"student_code": "student_code",
		"last_name":    "last_name",
		"level":        "level",
		"created_at":   "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "student_code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page, size := normalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, where, column, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	countQuery := r.db.Rebind(fmt.Sprintf("SELECT COUNT(1) FROM students WHERE %s", where))
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCode fetches a student by student code.
func (r *StudentRepository) FindByCode(ctx context.Context, code string) (*models.Student, error) {
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students WHERE student_code = ?")
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByCode checks whether a student code is taken, optionally excluding an ID.
func (r *StudentRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE student_code = ?"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> ?"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(query+" LIMIT 1"), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student code: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, student_code, first_name, last_name, email, phone, date_of_birth, gender, address,
        program, college, level, entry_type, academic_status, credits_completed, cgpa, created_at, updated_at)
        VALUES (:id, :student_code, :first_name, :last_name, :email, :phone, :date_of_birth, :gender, :address,
        :program, :college, :level, :entry_type, :academic_status, :credits_completed, :cgpa, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies the editable fields of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
        date_of_birth = :date_of_birth, gender = :gender, address = :address, program = :program, college = :college,
        level = :level, entry_type = :entry_type, academic_status = :academic_status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdateSnapshot overwrites the informational credits/CGPA columns.
func (r *StudentRepository) UpdateSnapshot(ctx context.Context, id string, creditsCompleted int, cgpa float64) error {
	query := r.db.Rebind(`UPDATE students SET credits_completed = ?, cgpa = ?, updated_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, creditsCompleted, cgpa, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update student snapshot: %w", err)
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
