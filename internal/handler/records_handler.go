package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type recordsService interface {
	RecordAttendance(ctx context.Context, req models.CreateAttendanceRequest, actingUserID string) (*models.AttendanceRecord, error)
	EnrollmentAttendance(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, models.AttendanceSummary, error)
	StudentAttendance(ctx context.Context, studentID string) ([]models.AttendanceRecord, error)
	AddFinancialRecord(ctx context.Context, studentID string, req models.CreateFinancialRecordRequest) (*models.FinancialRecord, error)
	FinancialRecords(ctx context.Context, studentID string) ([]models.FinancialRecord, error)
	AddTrainingRecord(ctx context.Context, studentID string, req models.CreateTrainingRecordRequest) (*models.TrainingRecord, error)
	TrainingRecords(ctx context.Context, studentID string) ([]models.TrainingRecord, error)
}

// RecordsHandler exposes attendance, financial and training records.
type RecordsHandler struct {
	records recordsService
}

func NewRecordsHandler(records recordsService) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// RecordAttendance godoc
// @Summary Record attendance
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body models.CreateAttendanceRequest true "Attendance"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *RecordsHandler) RecordAttendance(c *gin.Context) {
	var req models.CreateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.records.RecordAttendance(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// EnrollmentAttendance godoc
// @Summary Attendance of an enrollment
// @Tags Records
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/attendance [get]
func (h *RecordsHandler) EnrollmentAttendance(c *gin.Context) {
	records, summary, err := h.records.EnrollmentAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"records": records, "summary": summary})
}

// StudentAttendance godoc
// @Summary Attendance of a student
// @Tags Records
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *RecordsHandler) StudentAttendance(c *gin.Context) {
	records, err := h.records.StudentAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// AddFinancial godoc
// @Summary Add financial record
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.CreateFinancialRecordRequest true "Record"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/financial [post]
func (h *RecordsHandler) AddFinancial(c *gin.Context) {
	var req models.CreateFinancialRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.records.AddFinancialRecord(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Financial godoc
// @Summary Financial records of a student
// @Tags Records
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/financial [get]
func (h *RecordsHandler) Financial(c *gin.Context) {
	records, err := h.records.FinancialRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// AddTraining godoc
// @Summary Add training record
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.CreateTrainingRecordRequest true "Record"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/training [post]
func (h *RecordsHandler) AddTraining(c *gin.Context) {
	var req models.CreateTrainingRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.records.AddTrainingRecord(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Training godoc
// @Summary Training records of a student
// @Tags Records
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/training [get]
func (h *RecordsHandler) Training(c *gin.Context) {
	records, err := h.records.TrainingRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}
