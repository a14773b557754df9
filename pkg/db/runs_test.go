package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	require.NoError(t, err, "failed to create test database")
	// Every connection to :memory: is a separate database.
	database.SetMaxOpenConns(1)

	require.NoError(t, database.InitSchema(), "failed to initialize schema")
	t.Cleanup(func() { database.Close() })

	return database
}

func TestCreateRun_FillsDefaults(t *testing.T) {
	db := setupTestDB(t)

	run := &Run{DocsDir: "blogs", OutputPath: "result.csv", Backend: "cli", WorkerCount: 2, TotalCount: 5}
	require.NoError(t, db.CreateRun(run))

	require.NotEmpty(t, run.RunID)
	assert.False(t, run.StartedAt.IsZero())

	got, err := db.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "blogs", got.DocsDir)
	assert.Equal(t, "result.csv", got.OutputPath)
	assert.Equal(t, "cli", got.Backend)
	assert.Equal(t, 2, got.WorkerCount)
	assert.Equal(t, 5, got.TotalCount)
	assert.False(t, got.FinishedAt.Valid, "unfinished run should have NULL finished_at")
}

func TestFinishRun(t *testing.T) {
	db := setupTestDB(t)

	run := &Run{DocsDir: "blogs", OutputPath: "result.csv", WorkerCount: 2}
	require.NoError(t, db.CreateRun(run))
	require.NoError(t, db.FinishRun(run.RunID, 3, 2, 1, 1500*time.Millisecond))

	got, err := db.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalCount)
	assert.Equal(t, 2, got.SuccessCount)
	assert.Equal(t, 1, got.FailedCount)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, got.FinishedAt.Valid)

	assert.ErrorIs(t, db.FinishRun("no-such-run", 0, 0, 0, 0), ErrRunNotFound)
}

func TestRunResults_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	run := &Run{DocsDir: "blogs", OutputPath: "result.csv", WorkerCount: 1}
	require.NoError(t, db.CreateRun(run))

	inputs := []RunResult{
		{Document: "b.md", Status: StatusFailed, Stage: "extract", ErrorMessage: "timeout"},
		{Document: "a.md", Status: StatusSuccess, Keywords: []string{"猫", "狗", "鸟"}},
	}
	for _, r := range inputs {
		require.NoError(t, db.InsertRunResult(run.RunID, r), "InsertRunResult(%s)", r.Document)
	}

	got, err := db.GetRunResults(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, []RunResult{inputs[1], inputs[0]}, got)

	// Each document is stored once per run.
	assert.Error(t, db.InsertRunResult(run.RunID, inputs[0]))
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run := &Run{DocsDir: "blogs", OutputPath: "result.csv", WorkerCount: 2, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.CreateRun(run))
		ids = append(ids, run.RunID)
	}

	runs, err := db.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID, "newest first")
	assert.Equal(t, ids[1], runs[1].RunID)

	all, err := db.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	// Reopening an existing database keeps working.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ListRuns(0)
	assert.NoError(t, err)
}
