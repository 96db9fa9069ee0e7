package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/export"
)

type programRepository interface {
	List(ctx context.Context) ([]models.Program, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Curriculum(ctx context.Context, programID string, level int) ([]models.CurriculumEntry, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// Program levels run from first to fourth year.
const (
	MinLevel = 1
	MaxLevel = 4
)

// ProgramService serves the static program catalog and curricula.
type ProgramService struct {
	repo   programRepository
	csv    csvRenderer
	logger *zap.Logger
}

func NewProgramService(repo programRepository, csv csvRenderer, logger *zap.Logger) *ProgramService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, csv: csv, logger: logger}
}

func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	programs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list programs")
	}
	if programs == nil {
		programs = []models.Program{}
	}
	return programs, nil
}

func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "program not found", "failed to load program")
	}
	return program, nil
}

// Curriculum lists the courses of a program at a level ordered by semester
// label then course code. An unknown program is not an error here and yields
// an empty list; use Get to tell the two apart.
func (s *ProgramService) Curriculum(ctx context.Context, programID string, level int) ([]models.CurriculumEntry, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("level must be between %d and %d", MinLevel, MaxLevel))
	}
	entries, err := s.repo.Curriculum(ctx, programID, level)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load curriculum")
	}
	if entries == nil {
		entries = []models.CurriculumEntry{}
	}
	return entries, nil
}

// CurriculumCSV renders a program's curriculum at a level and suggests a file name.
func (s *ProgramService) CurriculumCSV(ctx context.Context, programID string, level int) ([]byte, string, error) {
	program, err := s.Get(ctx, programID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.Curriculum(ctx, programID, level)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{Headers: []string{"semester_label", "course_code", "title", "credits"}}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{e.SemesterLabel, e.Course.CourseCode, e.Course.Title, strconv.Itoa(e.Course.Credits)})
	}
	data, err := s.csv.Render(table)
	if err != nil {
		return nil, "", appErrors.Internal(err, "failed to render curriculum")
	}
	filename := fmt.Sprintf("curriculum-%s-L%d.csv", strings.ToLower(program.Code), level)
	return data, filename, nil
}
