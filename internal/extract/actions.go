package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/keyword-extractor/internal/common"
	"github.com/dtnitsch/keyword-extractor/models"
	"github.com/dtnitsch/keyword-extractor/pkg/aggregate"
	"github.com/dtnitsch/keyword-extractor/pkg/db"
	"github.com/dtnitsch/keyword-extractor/pkg/docsource"
	"github.com/dtnitsch/keyword-extractor/pkg/extractor"
	"github.com/dtnitsch/keyword-extractor/pkg/pool"
	"github.com/urfave/cli/v2"
)

// ExtractAction extracts keywords for every document in the docs directory
// and writes them to the output CSV.
func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	_, err = Run(c.Context, cfg, common.NewService(cfg), logger, os.Stdout)
	return err
}

// Outcome is what a run produced, in output order.
type Outcome struct {
	RunID    string
	Results  []models.ExtractionResult
	Failures []models.Failure
	Stats    models.RunStats
}

// Run executes one extraction pass. Per-document failures are reported in
// the Outcome; only setup and output-file errors are returned.
func Run(ctx context.Context, cfg *models.Config, service extractor.Service, logger *slog.Logger, stdout io.Writer) (*Outcome, error) {
	startTime := time.Now()

	fmt.Fprintln(stdout, "=== Keyword Extraction ===")
	fmt.Fprintf(stdout, "Using %d workers\n", cfg.WorkerCount)

	docs, err := docsource.List(cfg.DocsDir, cfg.Extension)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "Found %d documents\n", len(docs))
	logger.Info("Documents found", "docs_dir", cfg.DocsDir, "extension", cfg.Extension, "count", len(docs))

	history := openHistory(cfg, logger)
	if history != nil {
		defer history.Close()
	}

	run := &db.Run{
		RunID:       db.NewRunID(),
		StartedAt:   startTime.UTC(),
		DocsDir:     cfg.DocsDir,
		OutputPath:  cfg.Output,
		Backend:     cfg.Backend,
		WorkerCount: cfg.WorkerCount,
		TotalCount:  len(docs),
	}
	if history != nil {
		if err := history.CreateRun(run); err != nil {
			logger.Warn("Failed to record run", "error", err)
			history.Close()
			history = nil
		}
	}

	ex := extractor.New(service, extractor.WithLimit(cfg.Keywords), extractor.WithLanguage(cfg.Language))
	p := &pool.Pool{
		Workers:     cfg.WorkerCount,
		IdleTimeout: cfg.IdleTimeout,
		Extractor:   ex,
		Logger:      logger,
		Console:     stdout,
	}

	resultQueue, failureQueue := p.Run(ctx, docs)
	fmt.Fprintln(stdout, "\nAll workers finished, collecting results...")

	outcome := &Outcome{
		RunID:    run.RunID,
		Results:  aggregate.Collect(resultQueue),
		Failures: aggregate.CollectFailures(failureQueue),
	}
	outcome.Stats = models.RunStats{
		Total:     len(docs),
		Succeeded: len(outcome.Results),
		Failed:    len(outcome.Failures),
		Duration:  time.Since(startTime),
	}

	if err := aggregate.WriteCSV(cfg.Output, models.OutputHeader, outcome.Results); err != nil {
		return outcome, err
	}
	logger.Info("Results written", "output", cfg.Output, "rows", len(outcome.Results))

	if history != nil {
		recordHistory(history, run.RunID, outcome, logger)
	}

	if cfg.Summary != "" {
		summary := aggregate.RunSummary{
			RunID:    outcome.RunID,
			Created:  startTime,
			DocsDir:  cfg.DocsDir,
			Output:   cfg.Output,
			Workers:  cfg.WorkerCount,
			Stats:    outcome.Stats,
			Results:  outcome.Results,
			Failures: outcome.Failures,
		}
		if err := aggregate.WriteRunSummary(cfg.Summary, summary); err != nil {
			logger.Warn("Failed to write run summary", "path", cfg.Summary, "error", err)
		}
	}

	aggregate.PrintSummary(stdout, cfg.Output, outcome.Results, outcome.Stats)
	return outcome, nil
}

func openHistory(cfg *models.Config, logger *slog.Logger) *db.DB {
	if !cfg.History {
		return nil
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("Run history disabled", "db", cfg.DBPath, "error", err)
		return nil
	}
	return database
}

// recordHistory stores per-document outcomes. Failures here never affect the CSV.
func recordHistory(history *db.DB, runID string, outcome *Outcome, logger *slog.Logger) {
	for _, r := range outcome.Results {
		err := history.InsertRunResult(runID, db.RunResult{
			Document: r.Document,
			Status:   db.StatusSuccess,
			Keywords: r.Keywords,
		})
		if err != nil {
			logger.Warn("Failed to record run result", "document", r.Document, "error", err)
		}
	}
	for _, f := range outcome.Failures {
		err := history.InsertRunResult(runID, db.RunResult{
			Document:     f.Document,
			Status:       db.StatusFailed,
			Stage:        f.Stage,
			ErrorMessage: f.Reason,
		})
		if err != nil {
			logger.Warn("Failed to record run result", "document", f.Document, "error", err)
		}
	}

	s := outcome.Stats
	if err := history.FinishRun(runID, s.Total, s.Succeeded, s.Failed, s.Duration); err != nil {
		logger.Warn("Failed to finish run", "run_id", runID, "error", err)
	}
}
