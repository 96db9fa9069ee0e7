package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type standingService interface {
	Standing(ctx context.Context, studentID string) (*models.AcademicStanding, bool, error)
	SyncSnapshot(ctx context.Context, studentID, actingUserID string) (*models.AcademicStanding, error)
}

// StandingHandler serves computed GPA, CGPA and term standings.
type StandingHandler struct {
	standings standingService
}

func NewStandingHandler(standings standingService) *StandingHandler {
	return &StandingHandler{standings: standings}
}

// Get godoc
// @Summary Academic standing
// @Description Overall CGPA, per-term GPA and per-course points. A null gpa means no graded credits.
// @Tags Standing
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/standing [get]
func (h *StandingHandler) Get(c *gin.Context) {
	standing, cached, err := h.standings.Standing(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, standing, nil, middleware.Meta(c))
}

// Sync godoc
// @Summary Store computed standing on the student
// @Tags Standing
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/standing/sync [post]
func (h *StandingHandler) Sync(c *gin.Context) {
	standing, err := h.standings.SyncSnapshot(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, standing)
}
