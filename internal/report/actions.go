package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/keyword-extractor/internal/common"
	"github.com/dtnitsch/keyword-extractor/pkg/report"
	"github.com/urfave/cli/v2"
)

// ReportAction prints the saved result file with document titles and the
// repeated-keyword table.
func ReportAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	input := cfg.Output
	if c.IsSet("input") {
		input = c.String("input")
	}

	logger.Debug("Rendering report", "input", input, "docs_dir", cfg.DocsDir)
	return Show(os.Stdout, input, cfg.DocsDir)
}

// Show renders the result file at input. A missing file is not an error;
// the user is told how to produce one.
func Show(w io.Writer, input, docsDir string) error {
	rows, err := report.Load(input)
	if errors.Is(err, report.ErrNoResults) {
		fmt.Fprintf(w, "No results found at %s. Run 'keyword-extractor extract' first.\n", input)
		return nil
	}
	if err != nil {
		return err
	}

	report.Render(w, rows, report.DocsTitles(docsDir))
	return nil
}
