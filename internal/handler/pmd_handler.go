package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type pmdService interface {
	Submit(ctx context.Context, req models.SubmitPmdRequest, actingUserID string) (*models.PmdRecord, error)
	Approve(ctx context.Context, id, actingUserID string) (*models.PmdRecord, error)
	ListPending(ctx context.Context) ([]models.PmdRecord, error)
	ListForEnrollment(ctx context.Context, enrollmentID string) ([]models.PmdRecord, error)
}

// PmdHandler exposes medical, deferred and pass requests.
type PmdHandler struct {
	pmd pmdService
}

func NewPmdHandler(pmd pmdService) *PmdHandler {
	return &PmdHandler{pmd: pmd}
}

// Submit godoc
// @Summary Submit PMD request
// @Tags PMD
// @Accept json
// @Produce json
// @Param payload body models.SubmitPmdRequest true "Request"
// @Success 201 {object} response.Envelope
// @Router /pmd [post]
func (h *PmdHandler) Submit(c *gin.Context) {
	var req models.SubmitPmdRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.pmd.Submit(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Approve godoc
// @Summary Approve PMD request
// @Tags PMD
// @Produce json
// @Param id path string true "PMD ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /pmd/{id}/approve [post]
func (h *PmdHandler) Approve(c *gin.Context) {
	record, err := h.pmd.Approve(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// ListPending godoc
// @Summary Pending PMD requests
// @Tags PMD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pmd [get]
func (h *PmdHandler) ListPending(c *gin.Context) {
	records, err := h.pmd.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// ListForEnrollment godoc
// @Summary PMD requests of an enrollment
// @Tags PMD
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/pmd [get]
func (h *PmdHandler) ListForEnrollment(c *gin.Context) {
	records, err := h.pmd.ListForEnrollment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}
