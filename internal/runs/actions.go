package runs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/keyword-extractor/internal/common"
	dbpkg "github.com/dtnitsch/keyword-extractor/pkg/db"
	"github.com/urfave/cli/v2"
)

func openDB(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RunsAction lists recent runs, or shows one run when an ID is given.
func RunsAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return RunAction(c)
	}

	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	return List(os.Stdout, database, c.Int("limit"))
}

// RunAction shows the per-document outcomes of one run, the latest when no
// ID is given.
func RunAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := runIDOrLatest(c.Args().First(), database)
	if err != nil {
		return err
	}
	return Show(os.Stdout, database, runID)
}

// List prints a table of the most recent runs.
func List(w io.Writer, database *dbpkg.DB, limit int) error {
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-6s  %-8s  %-7s  %-8s  %-20s\n",
		"Run ID", "Started", "Docs", "Success", "Failed", "Duration", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-6d  %-8d  %-7d  %-8s  %-20s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.TotalCount,
			r.SuccessCount,
			r.FailedCount,
			r.Duration.Round(time.Millisecond),
			r.OutputPath,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'keyword-extractor runs <id>' to see details\n")

	return nil
}

// Show prints one run and its per-document results.
func Show(w io.Writer, database *dbpkg.DB, runID string) error {
	run, err := database.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	results, err := database.GetRunResults(runID)
	if err != nil {
		return fmt.Errorf("failed to get run results: %w", err)
	}

	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.Valid {
		fmt.Fprintln(w, "Finished:    (incomplete)")
	}
	fmt.Fprintf(w, "Docs dir:    %s\n", run.DocsDir)
	fmt.Fprintf(w, "Output:      %s\n", run.OutputPath)
	fmt.Fprintf(w, "Backend:     %s (%d workers)\n", run.Backend, run.WorkerCount)
	fmt.Fprintf(w, "Documents:   %d total (%d success, %d failed)\n",
		run.TotalCount, run.SuccessCount, run.FailedCount)

	if len(results) > 0 {
		fmt.Fprintf(w, "\nResults (%d):\n", len(results))
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for i, r := range results {
			fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, r.Status, r.Document)
			if r.Status == dbpkg.StatusFailed {
				fmt.Fprintf(w, "    Error: [%s] %s\n", r.Stage, r.ErrorMessage)
			} else {
				fmt.Fprintf(w, "    Keywords: %s\n", strings.Join(r.Keywords, ", "))
			}
		}
	}

	return nil
}

// runIDOrLatest returns runID, or the most recent run's ID when it is empty.
func runIDOrLatest(runID string, database *dbpkg.DB) (string, error) {
	if runID != "" {
		return runID, nil
	}
	runs, err := database.ListRuns(1)
	if err != nil {
		return "", fmt.Errorf("failed to get latest run: %w", err)
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs found. Run 'keyword-extractor extract' first")
	}
	return runs[0].RunID, nil
}
