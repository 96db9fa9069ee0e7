package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type transcriptService interface {
	Build(ctx context.Context, studentID string) (*models.TranscriptSnapshot, error)
	Generate(ctx context.Context, studentID, actingUserID string) (*models.TranscriptResult, error)
	Get(ctx context.Context, id string) (*models.TranscriptResult, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Transcript, error)
	Open(ctx context.Context, token string) (*service.TranscriptDownload, error)
}

// TranscriptHandler exposes transcript snapshots and their PDFs.
type TranscriptHandler struct {
	transcripts transcriptService
}

func NewTranscriptHandler(transcripts transcriptService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

// Preview godoc
// @Summary Current transcript snapshot
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *TranscriptHandler) Preview(c *gin.Context) {
	snapshot, err := h.transcripts.Build(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snapshot)
}

// Generate godoc
// @Summary Generate transcript PDF
// @Description Stores a snapshot and queues its PDF. Poll the transcript until status is READY.
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 202 {object} response.Envelope
// @Router /students/{id}/transcripts [post]
func (h *TranscriptHandler) Generate(c *gin.Context) {
	result, err := h.transcripts.Generate(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// List godoc
// @Summary Transcripts of a student
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transcripts [get]
func (h *TranscriptHandler) List(c *gin.Context) {
	list, err := h.transcripts.ListForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Get godoc
// @Summary Transcript status
// @Description Includes a signed download_url once the PDF is READY.
// @Tags Transcripts
// @Produce json
// @Param id path string true "Transcript ID"
// @Success 200 {object} response.Envelope
// @Router /transcripts/{id} [get]
func (h *TranscriptHandler) Get(c *gin.Context) {
	result, err := h.transcripts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Download godoc
// @Summary Download transcript PDF
// @Tags Transcripts
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /transcript-downloads [get]
func (h *TranscriptHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.transcripts.Open(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	size := int64(-1)
	if info, err := download.File.Stat(); err == nil {
		size = info.Size()
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, "application/pdf", download.File, nil)
}
