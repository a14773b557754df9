// Package aggregate collects extraction results and persists them.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/keyword-extractor/models"
	"gopkg.in/yaml.v3"
)

// Collect drains results and returns them sorted by document name.
func Collect(results <-chan models.ExtractionResult) []models.ExtractionResult {
	all := []models.ExtractionResult{}
	for r := range results {
		all = append(all, r)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Document < all[j].Document
	})
	return all
}

// CollectFailures drains failures and returns them sorted by document name.
func CollectFailures(failures <-chan models.Failure) []models.Failure {
	all := []models.Failure{}
	for f := range failures {
		all = append(all, f)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Document < all[j].Document
	})
	return all
}

// WriteCSV writes the header and one row per result to path. The file is
// written next to path and renamed into place, so readers never see a
// partial file.
func WriteCSV(path string, header []string, results []models.ExtractionResult) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Encode(tmp, header, results); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}

// Encode writes results as CSV rows of exactly models.OutputColumns columns.
func Encode(w io.Writer, header []string, results []models.ExtractionResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(r.OutputRecord()); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Document, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// PrintSummary prints where the results went and one line per document.
func PrintSummary(w io.Writer, outputPath string, results []models.ExtractionResult, stats models.RunStats) {
	fmt.Fprintf(w, "\n✓ Results saved to %s\n", outputPath)
	fmt.Fprintf(w, "✓ Processed %d/%d documents (%d failed) in %s\n",
		stats.Succeeded, stats.Total, stats.Failed, stats.Duration.Round(time.Millisecond))

	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "\n=== Extraction Summary ===")
	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.Document, strings.Join(r.Keywords, ", "))
	}
}

// RunSummary is the YAML summary written with --summary.
type RunSummary struct {
	RunID    string                    `yaml:"run_id,omitempty"`
	Created  time.Time                 `yaml:"created"`
	DocsDir  string                    `yaml:"docs_dir"`
	Output   string                    `yaml:"output"`
	Workers  int                       `yaml:"workers"`
	Stats    models.RunStats           `yaml:"stats"`
	Results  []models.ExtractionResult `yaml:"results,omitempty"`
	Failures []models.Failure          `yaml:"failures,omitempty"`
}

// WriteRunSummary marshals summary to YAML at path.
func WriteRunSummary(path string, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}
