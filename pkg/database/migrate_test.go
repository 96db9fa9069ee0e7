package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/pkg/config"
)

func openMemory(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewSQLite(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateSchemaAndSeed(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, true))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, db, true))

	var programs int
	require.NoError(t, db.Get(&programs, "SELECT COUNT(1) FROM programs"))
	assert.Equal(t, 6, programs)

	var credits int
	require.NoError(t, db.Get(&credits, "SELECT credits FROM courses WHERE course_code = ?", "MATH101"))
	assert.Equal(t, 3, credits)

	var labels []string
	require.NoError(t, db.Select(&labels, `SELECT pc.semester_label FROM program_courses pc
		JOIN courses c ON c.id = pc.course_id
		WHERE pc.program_id = ? AND pc.level = ? AND c.course_code IN ('MATH101', 'MATH102')
		ORDER BY pc.semester_label`, "program-mect", 1))
	assert.Equal(t, []string{"Semester 1", "Semester 2"}, labels)

	var applied int
	require.NoError(t, db.Get(&applied, "SELECT COUNT(1) FROM schema_migrations"))
	assert.Equal(t, 2, applied)
}

func TestMigrateWithoutSeed(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(context.Background(), db, false))

	var programs int
	require.NoError(t, db.Get(&programs, "SELECT COUNT(1) FROM programs"))
	assert.Zero(t, programs)
}

func TestApplyMigrationsRollsBackFailedFile(t *testing.T) {
	db := openMemory(t)
	fsys := fstest.MapFS{
		"m/0001_ok.sql":  {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY);")},
		"m/0002_bad.sql": {Data: []byte("INSERT INTO widgets (id) VALUES ('a'); INSERT INTO missing_table VALUES (1);")},
	}

	err := ApplyMigrations(context.Background(), db, fsys, "m")
	require.Error(t, err)

	var rows int
	require.NoError(t, db.Get(&rows, "SELECT COUNT(1) FROM widgets"))
	assert.Zero(t, rows)

	var applied []string
	require.NoError(t, db.Select(&applied, "SELECT name FROM schema_migrations"))
	assert.Equal(t, []string{"m/0001_ok.sql"}, applied)
}

func TestExtractUp(t *testing.T) {
	assert.Equal(t, "\nA\n", extractUp("-- +migrate Up\nA\n-- +migrate Down\nB"))
	assert.Equal(t, "plain", extractUp("plain"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Contains(t, sqliteDSN(":memory:"), "file::memory:?")
	assert.Contains(t, sqliteDSN(""), "file:./sis.db?")
	assert.Contains(t, sqliteDSN("/tmp/x.db"), "journal_mode(WAL)")
}
