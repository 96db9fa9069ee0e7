package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditHandler lists recent audit entries.
type AuditHandler struct {
	audit auditService
}

func NewAuditHandler(audit auditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary Recent audit entries
// @Tags Audit
// @Produce json
// @Param action query string false "Action"
// @Param table query string false "Target table"
// @Param targetId query string false "Target ID"
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditFilter{
		Action:      c.Query("action"),
		TargetTable: c.Query("table"),
		TargetID:    c.Query("targetId"),
		Limit:       queryInt(c, "limit", 100),
	}
	entries, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}
