package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/jobs"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// QueueStatter reports background job counters.
type QueueStatter interface {
	Stats() jobs.Stats
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	db      Pinger
	queue   QueueStatter
}

// NewMetricsHandler constructs a metrics handler. db and queue may be nil.
func NewMetricsHandler(metrics *service.MetricsService, db Pinger, queue QueueStatter) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, db: db, queue: queue}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness and, when a database is attached, its reachability.
func (h *MetricsHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	body := gin.H{"status": "ok"}
	if h.queue != nil {
		stats := h.queue.Stats()
		body["transcript_jobs"] = gin.H{"processed": stats.Processed, "retried": stats.Retried, "failed": stats.Failed}
	}
	c.JSON(http.StatusOK, body)
}
