package aggregate

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/keyword-extractor/models"
)

func feed(results ...models.ExtractionResult) <-chan models.ExtractionResult {
	ch := make(chan models.ExtractionResult, len(results))
	for _, r := range results {
		ch <- r
	}
	close(ch)
	return ch
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollect_SortsByDocument(t *testing.T) {
	got := Collect(feed(
		models.ExtractionResult{Document: "c.md", Keywords: []string{"3"}},
		models.ExtractionResult{Document: "a.md", Keywords: []string{"1"}},
		models.ExtractionResult{Document: "b.md", Keywords: []string{"2"}},
	))

	require.Len(t, got, 3)
	assert.Equal(t, "a.md", got[0].Document)
	assert.Equal(t, "b.md", got[1].Document)
	assert.Equal(t, "c.md", got[2].Document)
}

func TestCollect_Empty(t *testing.T) {
	got := Collect(feed())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	results := []models.ExtractionResult{
		{Document: "a.md", Keywords: []string{"x", "y", "z"}},
		{Document: "b.md", Keywords: []string{"猫"}},
	}

	require.NoError(t, WriteCSV(path, models.OutputHeader, results))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{
		models.OutputHeader,
		{"a.md", "x", "y", "z"},
		{"b.md", "猫", "", ""},
	}, rows)
	for _, row := range rows {
		assert.Len(t, row, models.OutputColumns)
	}
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	require.NoError(t, WriteCSV(path, models.OutputHeader, nil))

	rows := readCSV(t, path)
	assert.Equal(t, [][]string{models.OutputHeader}, rows)
}

func TestWriteCSV_QuotesCommasInKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	results := []models.ExtractionResult{{Document: "a.md", Keywords: []string{"x, y", `say "hi"`}}}
	require.NoError(t, WriteCSV(path, models.OutputHeader, results))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a.md", "x, y", `say "hi"`, ""}, rows[1])
}

func TestWriteCSV_Idempotent(t *testing.T) {
	dir := t.TempDir()
	results := Collect(feed(
		models.ExtractionResult{Document: "b.md", Keywords: []string{"2"}},
		models.ExtractionResult{Document: "a.md", Keywords: []string{"1"}},
	))

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, WriteCSV(first, models.OutputHeader, results))
	require.NoError(t, WriteCSV(second, models.OutputHeader, results))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteCSV_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "result.csv")
	err := WriteCSV(path, models.OutputHeader, nil)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteCSV_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, WriteCSV(path, models.OutputHeader, nil))
	assert.Equal(t, [][]string{models.OutputHeader}, readCSV(t, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should not be left behind")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	results := []models.ExtractionResult{{Document: "a.md", Keywords: []string{"x", "y"}}}
	PrintSummary(&buf, "result.csv", results, models.RunStats{Total: 2, Succeeded: 1, Failed: 1, Duration: 1500 * time.Millisecond})

	out := buf.String()
	assert.Contains(t, out, "Results saved to result.csv")
	assert.Contains(t, out, "Processed 1/2 documents (1 failed)")
	assert.Contains(t, out, "a.md: x, y")
}

func TestWriteRunSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	summary := RunSummary{
		RunID:    "run-1",
		DocsDir:  "blogs",
		Output:   "result.csv",
		Workers:  2,
		Stats:    models.RunStats{Total: 2, Succeeded: 1, Failed: 1, Duration: 2 * time.Second},
		Results:  []models.ExtractionResult{{Document: "a.md", Keywords: []string{"x"}}},
		Failures: []models.Failure{{Document: "b.md", Stage: "extract", Reason: "timeout"}},
	}
	require.NoError(t, WriteRunSummary(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got RunSummary
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 2*time.Second, got.Stats.Duration)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, "timeout", got.Failures[0].Reason)
	assert.Contains(t, string(data), "duration: 2s")
}
