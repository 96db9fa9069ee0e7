package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type rafehService interface {
	Apply(ctx context.Context, req models.ApplyRafehRequest, actingUserID string) (*models.RafehAdjustment, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.RafehAdjustment, error)
}

// RafehHandler exposes consolation mark adjustments.
type RafehHandler struct {
	rafeh rafehService
}

func NewRafehHandler(rafeh rafehService) *RafehHandler {
	return &RafehHandler{rafeh: rafeh}
}

// Apply godoc
// @Summary Apply rafeh adjustment
// @Tags Rafeh
// @Accept json
// @Produce json
// @Param payload body models.ApplyRafehRequest true "Adjustment"
// @Success 201 {object} response.Envelope
// @Router /rafeh [post]
func (h *RafehHandler) Apply(c *gin.Context) {
	var req models.ApplyRafehRequest
	if !bindJSON(c, &req) {
		return
	}
	adj, err := h.rafeh.Apply(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, adj)
}

// List godoc
// @Summary Rafeh adjustments of a student
// @Tags Rafeh
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/rafeh [get]
func (h *RafehHandler) List(c *gin.Context) {
	list, err := h.rafeh.ListForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
