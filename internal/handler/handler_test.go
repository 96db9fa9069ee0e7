package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/jobs"
)

func newGinContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	return c, w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type gradeServiceMock struct {
	inputs []models.GradeComponentInput
	actor  string
	err    error
}

func (m *gradeServiceMock) Components(ctx context.Context, enrollmentID string) ([]models.GradeComponent, error) {
	return []models.GradeComponent{}, m.err
}

func (m *gradeServiceMock) SaveComponents(ctx context.Context, enrollmentID string, inputs []models.GradeComponentInput, actingUserID string) (*models.SaveGradeComponentsResult, error) {
	m.inputs = inputs
	m.actor = actingUserID
	if m.err != nil {
		return nil, m.err
	}
	return &models.SaveGradeComponentsResult{EnrollmentID: enrollmentID, FinalGrade: 80}, nil
}

func TestSaveComponentsPassesActor(t *testing.T) {
	grades := &gradeServiceMock{}
	h := NewEnrollmentHandler(nil, grades)

	body := []byte(`{"components":[{"component_type":"exam","weight":1,"max_score":100,"score":80}]}`)
	c, w := newGinContext(http.MethodPut, "/enrollments/e1/components", body)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.SaveComponents(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", grades.actor)
	require.Len(t, grades.inputs, 1)
	assert.Equal(t, "exam", grades.inputs[0].ComponentType)
}

func TestSaveComponentsOutOfRange(t *testing.T) {
	grades := &gradeServiceMock{err: appErrors.ErrOutOfRange}
	h := NewEnrollmentHandler(nil, grades)

	c, w := newGinContext(http.MethodPut, "/enrollments/e1/components", []byte(`{"components":[]}`))
	c.Params = gin.Params{{Key: "id", Value: "e1"}}

	h.SaveComponents(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "OUT_OF_RANGE", decode(t, w).Error.Code)
}

func TestSaveComponentsMalformedBody(t *testing.T) {
	h := NewEnrollmentHandler(nil, &gradeServiceMock{})

	c, w := newGinContext(http.MethodPut, "/enrollments/e1/components", []byte(`{"components":`))
	h.SaveComponents(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type programServiceMock struct {
	level int
}

func (m *programServiceMock) List(ctx context.Context) ([]models.Program, error) {
	return []models.Program{}, nil
}

func (m *programServiceMock) Get(ctx context.Context, id string) (*models.Program, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
}

func (m *programServiceMock) Curriculum(ctx context.Context, programID string, level int) ([]models.CurriculumEntry, error) {
	m.level = level
	if programID != "p1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return []models.CurriculumEntry{{SemesterLabel: "Semester 1", Course: models.Course{CourseCode: "MATH101"}}}, nil
}

func (m *programServiceMock) CurriculumCSV(ctx context.Context, programID string, level int) ([]byte, string, error) {
	return []byte("semester_label,course_code,title,credits\n"), "curriculum-cs-L1.csv", nil
}

func TestCurriculum(t *testing.T) {
	programs := &programServiceMock{}
	h := NewProgramHandler(programs)

	c, w := newGinContext(http.MethodGet, "/programs/p1/curriculum?level=2", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.Curriculum(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, programs.level)

	c, w = newGinContext(http.MethodGet, "/programs/nope/curriculum?level=1", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Curriculum(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodGet, "/programs/p1/curriculum?level=x", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.Curriculum(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurriculumCSV(t *testing.T) {
	h := NewProgramHandler(&programServiceMock{})

	c, w := newGinContext(http.MethodGet, "/programs/p1/curriculum?level=1&format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	h.Curriculum(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "curriculum-cs-L1.csv")
	assert.Equal(t, "semester_label,course_code,title,credits\n", w.Body.String())
}

type standingServiceMock struct {
	cached bool
}

func (m *standingServiceMock) Standing(ctx context.Context, studentID string) (*models.AcademicStanding, bool, error) {
	return &models.AcademicStanding{StudentID: studentID}, m.cached, nil
}

func (m *standingServiceMock) SyncSnapshot(ctx context.Context, studentID, actingUserID string) (*models.AcademicStanding, error) {
	return &models.AcademicStanding{StudentID: studentID}, nil
}

func TestStandingReportsCacheHit(t *testing.T) {
	h := NewStandingHandler(&standingServiceMock{cached: true})

	c, w := newGinContext(http.MethodGet, "/students/s1/standing", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Meta["cache_hit"])
}

type transcriptServiceMock struct {
	path string
	err  error
}

func (m *transcriptServiceMock) Build(ctx context.Context, studentID string) (*models.TranscriptSnapshot, error) {
	return &models.TranscriptSnapshot{}, nil
}

func (m *transcriptServiceMock) Generate(ctx context.Context, studentID, actingUserID string) (*models.TranscriptResult, error) {
	return &models.TranscriptResult{Transcript: &models.Transcript{ID: "t1", StudentID: studentID, Status: models.TranscriptStatusQueued}}, nil
}

func (m *transcriptServiceMock) Get(ctx context.Context, id string) (*models.TranscriptResult, error) {
	return nil, m.err
}

func (m *transcriptServiceMock) ListForStudent(ctx context.Context, studentID string) ([]models.Transcript, error) {
	return []models.Transcript{}, nil
}

func (m *transcriptServiceMock) Open(ctx context.Context, token string) (*service.TranscriptDownload, error) {
	if m.err != nil {
		return nil, m.err
	}
	f, err := os.Open(m.path)
	if err != nil {
		return nil, err
	}
	return &service.TranscriptDownload{File: f, Filename: "transcript-S001.pdf"}, nil
}

func TestTranscriptGenerateAccepted(t *testing.T) {
	h := NewTranscriptHandler(&transcriptServiceMock{})

	c, w := newGinContext(http.MethodPost, "/students/s1/transcripts", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.Generate(c)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestTranscriptDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3 test"), 0o600))
	h := NewTranscriptHandler(&transcriptServiceMock{path: path})

	c, w := newGinContext(http.MethodGet, "/transcript-downloads?token=abc", nil)
	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transcript-S001.pdf")
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
}

func TestTranscriptDownloadRejectsToken(t *testing.T) {
	h := NewTranscriptHandler(&transcriptServiceMock{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")})

	c, w := newGinContext(http.MethodGet, "/transcript-downloads?token=abc", nil)
	h.Download(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/transcript-downloads", nil)
	h.Download(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type stubQueue struct{ stats jobs.Stats }

func (q stubQueue) Stats() jobs.Stats { return q.stats }

func TestHealth(t *testing.T) {
	h := NewMetricsHandler(nil, stubPinger{}, stubQueue{stats: jobs.Stats{Processed: 4, Failed: 1}})
	c, w := newGinContext(http.MethodGet, "/health", nil)
	h.Health(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string           `json:"status"`
		Jobs   map[string]int64 `json:"transcript_jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, int64(4), body.Jobs["processed"])
	assert.Equal(t, int64(1), body.Jobs["failed"])

	h = NewMetricsHandler(nil, stubPinger{err: context.DeadlineExceeded}, nil)
	c, w = newGinContext(http.MethodGet, "/health", nil)
	h.Health(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
