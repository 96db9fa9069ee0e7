package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/middleware/requestid"
)

func TestAuditLogRepositoryRecord(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAuditLogRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "u1", models.AuditActionGradeComponentsUpdated, "enrollments", "e1",
			[]byte(`{"enrollmentId":"e1","finalGrade":84}`), "req-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	ctx := requestid.WithValue(context.Background(), "req-1")
	err := repo.Record(ctx, "u1", models.AuditActionGradeComponentsUpdated, "enrollments", "e1",
		map[string]interface{}{"enrollmentId": "e1", "finalGrade": 84.0})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAuditLogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE 1=1 AND action = ? ORDER BY created_at DESC LIMIT 100")).
		WithArgs(models.AuditActionPmdApprove).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "target_table", "target_id", "diff", "request_id", "created_at"}).
			AddRow("a1", "u1", models.AuditActionPmdApprove, "pmd_records", "p1", []byte(`{"id":"p1"}`), nil, time.Now()))

	logs, err := repo.List(context.Background(), models.AuditFilter{Action: models.AuditActionPmdApprove})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"id":"p1"}`, string(logs[0].Diff))
}
