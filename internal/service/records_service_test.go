package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockAttendanceRepo struct{ items []models.AttendanceRecord }

func (m *mockAttendanceRepo) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	m.items = append(m.items, *rec)
	return nil
}

func (m *mockAttendanceRepo) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error) {
	return m.items, nil
}

func (m *mockAttendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	return m.items, nil
}

type mockFinancialRepo struct{ items []models.FinancialRecord }

func (m *mockFinancialRepo) Create(ctx context.Context, rec *models.FinancialRecord) error {
	m.items = append(m.items, *rec)
	return nil
}

func (m *mockFinancialRepo) ListByStudent(ctx context.Context, studentID string) ([]models.FinancialRecord, error) {
	return m.items, nil
}

type mockTrainingRepo struct{ items []models.TrainingRecord }

func (m *mockTrainingRepo) Create(ctx context.Context, rec *models.TrainingRecord) error {
	m.items = append(m.items, *rec)
	return nil
}

func (m *mockTrainingRepo) ListByStudent(ctx context.Context, studentID string) ([]models.TrainingRecord, error) {
	return m.items, nil
}

func newRecordsFixture() *RecordsService {
	students := &mockStudentRepo{students: map[string]*models.Student{"stu-1": {ID: "stu-1"}}}
	enrollments := &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{"enr-1": {ID: "enr-1", StudentID: "stu-1"}}}
	return NewRecordsService(&mockAttendanceRepo{}, &mockFinancialRepo{}, &mockTrainingRepo{}, students, enrollments, nil, nil)
}

func TestRecordsServiceAttendance(t *testing.T) {
	svc := newRecordsFixture()
	ctx := context.Background()

	for _, status := range []string{models.AttendancePresent, models.AttendancePresent, models.AttendanceAbsent, models.AttendanceExcused} {
		_, err := svc.RecordAttendance(ctx, models.CreateAttendanceRequest{EnrollmentID: "enr-1", AttendedOn: "2024-10-01", Status: status}, "admin-1")
		require.NoError(t, err)
	}

	records, summary, err := svc.EnrollmentAttendance(ctx, "enr-1")
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, models.AttendanceSummary{EnrollmentID: "enr-1", Present: 2, Absent: 1, Excused: 1}, summary)

	_, err = svc.RecordAttendance(ctx, models.CreateAttendanceRequest{EnrollmentID: "enr-1", AttendedOn: "01/10/2024", Status: "present"}, "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.EnrollmentAttendance(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRecordsServiceFinancial(t *testing.T) {
	svc := newRecordsFixture()
	ctx := context.Background()

	rec, err := svc.AddFinancialRecord(ctx, "stu-1", models.CreateFinancialRecordRequest{RecordType: "tuition", Amount: 1200, Status: models.FinancialPending})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", rec.StudentID)

	_, err = svc.AddFinancialRecord(ctx, "stu-1", models.CreateFinancialRecordRequest{RecordType: "tuition", Amount: 10, Status: "waived"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.FinancialRecords(ctx, "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	list, err := svc.FinancialRecords(ctx, "stu-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordsServiceTraining(t *testing.T) {
	svc := newRecordsFixture()
	ctx := context.Background()

	_, err := svc.AddTrainingRecord(ctx, "stu-1", models.CreateTrainingRecordRequest{Company: "Acme", StartDate: "2024-07-01", EndDate: strPtr("2024-06-01"), Status: "planned"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	rec, err := svc.AddTrainingRecord(ctx, "stu-1", models.CreateTrainingRecordRequest{Company: "Acme", StartDate: "2024-07-01", EndDate: strPtr("2024-08-31"), Status: "completed", Grade: floatPtr(88)})
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Company)

	list, err := svc.TrainingRecords(ctx, "stu-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
