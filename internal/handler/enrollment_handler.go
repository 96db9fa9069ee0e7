package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type enrollmentService interface {
	Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	UpdateMarks(ctx context.Context, id string, req models.UpdateMarksRequest) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

type gradeService interface {
	Components(ctx context.Context, enrollmentID string) ([]models.GradeComponent, error)
	SaveComponents(ctx context.Context, enrollmentID string, inputs []models.GradeComponentInput, actingUserID string) (*models.SaveGradeComponentsResult, error)
}

// EnrollmentHandler exposes enrollments and their grade components.
type EnrollmentHandler struct {
	enrollments enrollmentService
	grades      gradeService
}

func NewEnrollmentHandler(enrollments enrollmentService, grades gradeService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, grades: grades}
}

// Create godoc
// @Summary Enroll student
// @Description Registers a student in a course for a semester and year. The grade starts empty.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req models.CreateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// UpdateMarks godoc
// @Summary Update assignment marks
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body models.UpdateMarksRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/marks [put]
func (h *EnrollmentHandler) UpdateMarks(c *gin.Context) {
	var req models.UpdateMarksRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.UpdateMarks(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Delete godoc
// @Summary Drop enrollment
// @Tags Enrollments
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Components godoc
// @Summary Grade components of an enrollment
// @Tags Grades
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/components [get]
func (h *EnrollmentHandler) Components(c *gin.Context) {
	components, err := h.grades.Components(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, components)
}

// SaveComponents godoc
// @Summary Replace grade components
// @Description Replaces the full component set and recomputes the enrollment grade in one transaction.
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body models.SaveGradeComponentsRequest true "Components"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /enrollments/{id}/components [put]
func (h *EnrollmentHandler) SaveComponents(c *gin.Context) {
	var req models.SaveGradeComponentsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.grades.SaveComponents(c.Request.Context(), c.Param("id"), req.Components, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
