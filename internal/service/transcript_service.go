package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/grading"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/storage"
)

// TranscriptJobType tags render jobs on the background queue.
const TranscriptJobType = "transcript.render"

type transcriptRepository interface {
	Create(ctx context.Context, t *models.Transcript) error
	FindByID(ctx context.Context, id string) (*models.Transcript, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Transcript, error)
	UpdateStatus(ctx context.Context, id string, status models.TranscriptStatus, filePath, errMsg *string, finishedAt *time.Time) error
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

type downloadSigner interface {
	Generate(resourceID, path string) (string, time.Time, error)
	Verify(token string) (storage.SignedToken, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// TranscriptConfig tunes transcript links.
type TranscriptConfig struct {
	DownloadPath string
}

// TranscriptDownload is an opened transcript PDF. The caller closes File.
type TranscriptDownload struct {
	File     *os.File
	Filename string
}

// TranscriptService snapshots a student's record and renders it to PDF in the background.
type TranscriptService struct {
	students    enrollmentStudentReader
	enrollments standingEnrollmentReader
	repo        transcriptRepository
	storage     fileStorage
	signer      downloadSigner
	pdf         pdfRenderer
	queue       jobEnqueuer
	audit       auditRecorder
	metrics     *MetricsService
	logger      *zap.Logger
	config      TranscriptConfig
	now         func() time.Time
}

func NewTranscriptService(students enrollmentStudentReader, enrollments standingEnrollmentReader, repo transcriptRepository, store fileStorage, signer downloadSigner, pdf pdfRenderer, audit auditRecorder, metrics *MetricsService, logger *zap.Logger, config TranscriptConfig) *TranscriptService {
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DownloadPath == "" {
		config.DownloadPath = "/api/v1/transcript-downloads"
	}
	return &TranscriptService{
		students:    students,
		enrollments: enrollments,
		repo:        repo,
		storage:     store,
		signer:      signer,
		pdf:         pdf,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UseQueue attaches the queue that runs HandleJob. The queue is built after
// the service because its handler is a method of the service.
func (s *TranscriptService) UseQueue(q jobEnqueuer) {
	s.queue = q
}

// Build returns the current transcript snapshot of a student. Ungraded
// enrollments are listed with a nil grade.
func (s *TranscriptService) Build(ctx context.Context, studentID string) (*models.TranscriptSnapshot, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	entries, err := s.enrollments.ListByStudentWithCourses(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load enrollments")
	}

	courses := make([]models.TranscriptCourse, 0, len(entries))
	for _, e := range entries {
		courses = append(courses, models.TranscriptCourse{
			EnrollmentID: e.ID,
			CourseCode:   e.CourseCode,
			CourseTitle:  e.CourseTitle,
			Credits:      e.Credits,
			Semester:     e.Semester,
			Year:         e.Year,
			Grade:        e.Grade,
		})
	}

	return &models.TranscriptSnapshot{
		Student: models.TranscriptStudent{
			ID:          student.ID,
			StudentCode: student.StudentCode,
			FirstName:   student.FirstName,
			LastName:    student.LastName,
			Program:     student.Program,
			College:     student.College,
			Level:       student.Level,
		},
		Enrollments: courses,
		Overall:     grading.Rollup(entries),
		Terms:       grading.Terms(entries),
		GeneratedAt: s.now(),
	}, nil
}

// Generate stores a snapshot and queues its PDF rendering.
func (s *TranscriptService) Generate(ctx context.Context, studentID, actingUserID string) (*models.TranscriptResult, error) {
	snapshot, err := s.Build(ctx, studentID)
	if err != nil {
		return nil, err
	}

	transcript := &models.Transcript{
		StudentID:   studentID,
		Content:     *snapshot,
		Status:      models.TranscriptStatusQueued,
		GeneratedAt: snapshot.GeneratedAt,
	}
	if actingUserID != "" {
		transcript.GeneratedBy = &actingUserID
	}
	if err := s.repo.Create(ctx, transcript); err != nil {
		return nil, appErrors.Internal(err, "failed to store transcript")
	}

	if s.queue == nil {
		return nil, s.failTranscript(ctx, transcript, fmt.Errorf("transcript queue not configured"))
	}
	if err := s.queue.Enqueue(jobs.Job{ID: transcript.ID, Type: TranscriptJobType, Payload: transcript.ID}); err != nil {
		return nil, s.failTranscript(ctx, transcript, err)
	}

	recordAudit(ctx, s.audit, s.logger, actingUserID, models.AuditActionTranscriptGenerate, "transcripts", transcript.ID,
		map[string]interface{}{"studentId": studentID})
	return &models.TranscriptResult{Transcript: transcript}, nil
}

func (s *TranscriptService) failTranscript(ctx context.Context, transcript *models.Transcript, cause error) error {
	msg := cause.Error()
	finished := s.now()
	if err := s.repo.UpdateStatus(ctx, transcript.ID, models.TranscriptStatusFailed, nil, &msg, &finished); err != nil {
		s.logger.Warn("failed to mark transcript failed", zap.String("transcript_id", transcript.ID), zap.Error(err))
	}
	return appErrors.Internal(cause, "failed to queue transcript rendering")
}

// Get returns a transcript with a signed download link once its PDF is ready.
func (s *TranscriptService) Get(ctx context.Context, id string) (*models.TranscriptResult, error) {
	transcript, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "transcript not found", "failed to load transcript")
	}
	result := &models.TranscriptResult{Transcript: transcript}
	if transcript.Status != models.TranscriptStatusReady || transcript.FilePath == nil {
		return result, nil
	}

	token, expiresAt, err := s.signer.Generate(transcript.ID, *transcript.FilePath)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign download link")
	}
	link := s.config.DownloadPath + "?token=" + url.QueryEscape(token)
	result.DownloadURL = &link
	result.ExpiresAt = &expiresAt
	return result, nil
}

func (s *TranscriptService) ListForStudent(ctx context.Context, studentID string) ([]models.Transcript, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, mapLookupErr(err, "student not found", "failed to load student")
	}
	list, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list transcripts")
	}
	if list == nil {
		list = []models.Transcript{}
	}
	return list, nil
}

// OwnerOf returns the id of the student a transcript belongs to.
func (s *TranscriptService) OwnerOf(ctx context.Context, id string) (string, error) {
	transcript, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", mapLookupErr(err, "transcript not found", "failed to load transcript")
	}
	return transcript.StudentID, nil
}

// Open validates a download token and opens the PDF it points at.
func (s *TranscriptService) Open(ctx context.Context, token string) (*TranscriptDownload, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download link")
	}
	transcript, err := s.repo.FindByID(ctx, claims.ResourceID)
	if err != nil {
		return nil, mapLookupErr(err, "transcript not found", "failed to load transcript")
	}
	if transcript.Status != models.TranscriptStatusReady || transcript.FilePath == nil || *transcript.FilePath != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "transcript file not available")
	}

	file, err := s.storage.Open(claims.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "transcript file not available")
		}
		return nil, appErrors.Internal(err, "failed to open transcript file")
	}
	filename := fmt.Sprintf("transcript-%s-%s.pdf", transcript.Content.Student.StudentCode, transcript.GeneratedAt.Format("20060102"))
	return &TranscriptDownload{File: file, Filename: filename}, nil
}

// HandleJob renders the PDF of a queued transcript. Returned errors are retried by the queue.
func (s *TranscriptService) HandleJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok || id == "" {
		id = job.ID
	}
	transcript, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load transcript %s: %w", id, err)
	}
	if err := s.repo.UpdateStatus(ctx, id, models.TranscriptStatusProcessing, nil, nil, nil); err != nil {
		return fmt.Errorf("mark transcript %s processing: %w", id, err)
	}

	data, err := s.pdf.Render(transcriptDocument(transcript.Content))
	if err != nil {
		return fmt.Errorf("render transcript %s: %w", id, err)
	}
	name := path.Join("students", transcript.StudentID, id+".pdf")
	if _, err := s.storage.Save(name, data); err != nil {
		return fmt.Errorf("store transcript %s: %w", id, err)
	}

	finished := s.now()
	if err := s.repo.UpdateStatus(ctx, id, models.TranscriptStatusReady, &name, nil, &finished); err != nil {
		if delErr := s.storage.Delete(name); delErr != nil {
			s.logger.Warn("failed to remove orphaned transcript file", zap.String("path", name), zap.Error(delErr))
		}
		return fmt.Errorf("mark transcript %s ready: %w", id, err)
	}
	s.metrics.ObserveTranscriptJob("ready")
	s.logger.Info("transcript rendered", zap.String("transcript_id", id), zap.Int("bytes", len(data)))
	return nil
}

// HandleFailure marks a transcript failed once the queue gives up on it.
func (s *TranscriptService) HandleFailure(ctx context.Context, job jobs.Job, cause error) {
	s.metrics.ObserveTranscriptJob("failed")
	msg := cause.Error()
	finished := s.now()
	if err := s.repo.UpdateStatus(ctx, job.ID, models.TranscriptStatusFailed, nil, &msg, &finished); err != nil {
		s.logger.Error("failed to mark transcript failed", zap.String("transcript_id", job.ID), zap.Error(err))
	}
}

func transcriptDocument(snap models.TranscriptSnapshot) export.Document {
	student := snap.Student
	doc := export.Document{
		Title: "Academic Transcript",
		Fields: []export.Field{
			{Label: "Student", Value: student.FullName()},
			{Label: "Student code", Value: student.StudentCode},
			{Label: "Program", Value: derefOr(student.Program, "-")},
			{Label: "College", Value: derefOr(student.College, "-")},
			{Label: "Level", Value: strconv.Itoa(student.Level)},
		},
	}

	headers := []string{"Code", "Course", "Credits", "Grade", "Points"}
	for _, term := range snap.Terms {
		table := export.Table{Headers: headers}
		for _, c := range snap.Enrollments {
			if c.Year != term.Year || c.Semester != term.Semester {
				continue
			}
			grade, points := "-", "-"
			if c.Grade != nil {
				grade = strconv.FormatFloat(*c.Grade, 'f', 2, 64)
				points = strconv.FormatFloat(grading.Points(*c.Grade), 'f', 1, 64)
			}
			table.Rows = append(table.Rows, []string{c.CourseCode, c.CourseTitle, strconv.Itoa(c.Credits), grade, points})
		}
		doc.Sections = append(doc.Sections, export.Section{
			Heading: fmt.Sprintf("%s %d", term.Semester, term.Year),
			Table:   table,
			Summary: summaryFields("Term GPA", term.StandingSummary),
		})
	}

	doc.Footer = append(summaryFields("CGPA", snap.Overall),
		export.Field{Label: "Generated", Value: snap.GeneratedAt.Format("2006-01-02 15:04 MST")})
	return doc
}

func summaryFields(gpaLabel string, summary models.StandingSummary) []export.Field {
	gpa := "n/a"
	if summary.GPA != nil {
		gpa = strconv.FormatFloat(*summary.GPA, 'f', 2, 64)
	}
	return []export.Field{
		{Label: gpaLabel, Value: gpa},
		{Label: "Credits graded", Value: strconv.Itoa(summary.TotalCredits)},
		{Label: "Credits passed", Value: strconv.Itoa(summary.PassedCredits)},
	}
}

func derefOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
