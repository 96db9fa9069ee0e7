package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type programService interface {
	List(ctx context.Context) ([]models.Program, error)
	Get(ctx context.Context, id string) (*models.Program, error)
	Curriculum(ctx context.Context, programID string, level int) ([]models.CurriculumEntry, error)
	CurriculumCSV(ctx context.Context, programID string, level int) ([]byte, string, error)
}

// ProgramHandler exposes programs and their curricula.
type ProgramHandler struct {
	programs programService
}

func NewProgramHandler(programs programService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, programs)
}

// Get godoc
// @Summary Get program
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.programs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, program)
}

// Curriculum godoc
// @Summary Curriculum of a program level
// @Description Courses planned for the level, ordered by semester label then course code. Add format=csv for a download.
// @Tags Programs
// @Produce json
// @Produce text/csv
// @Param id path string true "Program ID"
// @Param level query int true "Level (1-4)"
// @Param format query string false "json or csv"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id}/curriculum [get]
func (h *ProgramHandler) Curriculum(c *gin.Context) {
	level, err := strconv.Atoi(c.Query("level"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "level must be an integer"))
		return
	}

	if c.Query("format") == "csv" {
		data, filename, err := h.programs.CurriculumCSV(c.Request.Context(), c.Param("id"), level)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}

	entries, err := h.programs.Curriculum(c.Request.Context(), c.Param("id"), level)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}
