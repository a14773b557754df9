// Package report renders a saved result CSV for reading.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dtnitsch/keyword-extractor/models"
	"github.com/dtnitsch/keyword-extractor/pkg/docsource"
	"github.com/dtnitsch/keyword-extractor/pkg/keywords"
)

// ErrNoResults is returned when the result file does not exist.
var ErrNoResults = errors.New("result file not found")

const lineWidth = 70

// topKeywords is how many keywords the overview line lists.
const topKeywords = 5

// Row is one document line of the result file.
type Row struct {
	Document string
	Keywords []string
}

// Load reads the result CSV at path, skipping the header. Rows with fewer
// than four columns are ignored; empty keyword cells are dropped.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoResults, path)
		}
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse result file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < models.OutputColumns {
			continue
		}
		row := Row{Document: rec[0]}
		for _, k := range rec[1:models.OutputColumns] {
			if k != "" {
				row.Keywords = append(row.Keywords, k)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Frequencies counts keyword occurrences across all rows.
func Frequencies(rows []Row) map[string]int {
	maps := make([]map[string]int, 0, len(rows))
	for _, r := range rows {
		maps = append(maps, keywords.Map(r.Keywords))
	}
	return keywords.Reduce(maps)
}

// TitleFunc resolves a document name to its display title, "" if unknown.
type TitleFunc func(document string) string

// DocsTitles looks titles up from the heading line of files in dir.
func DocsTitles(dir string) TitleFunc {
	return func(document string) string {
		return docsource.Title(filepath.Join(dir, document))
	}
}

// Render writes the per-document listing followed by the table of keywords
// that occur more than once.
func Render(w io.Writer, rows []Row, title TitleFunc) {
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))
	fmt.Fprintln(w, center("Keyword Extraction Results", lineWidth))
	fmt.Fprintln(w, strings.Repeat("=", lineWidth))

	counts := Frequencies(rows)
	fmt.Fprintf(w, "\nTotal documents: %d\n", len(rows))
	fmt.Fprintf(w, "Distinct keywords: %d\n", len(counts))
	if top := keywords.Top(counts, topKeywords); len(top) > 0 {
		parts := make([]string, len(top))
		for i, c := range top {
			parts[i] = fmt.Sprintf("%s (%d)", c.Keyword, c.Count)
		}
		fmt.Fprintf(w, "Most frequent: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w, "\nDetails:")
	fmt.Fprintln(w, strings.Repeat("-", lineWidth))

	for _, r := range rows {
		t := ""
		if title != nil {
			t = title(r.Document)
		}
		if t == "" {
			t = docsource.UnknownTitle
		}
		fmt.Fprintf(w, "\n📖 %s\n", r.Document)
		fmt.Fprintf(w, "   Title:    %s\n", t)
		fmt.Fprintf(w, "   Keywords: %s\n", strings.Join(r.Keywords, " | "))
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("-", lineWidth))
	fmt.Fprintln(w, "\n📊 Keywords appearing more than once:")
	fmt.Fprintln(w, strings.Repeat("-", 30))

	repeated := keywords.Repeated(counts, 2)
	if len(repeated) == 0 {
		fmt.Fprintln(w, "   (every keyword appears only once)")
	} else {
		for _, line := range frequencyTable(repeated) {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", lineWidth))
}

// frequencyTable pads keywords by display width so CJK and ASCII keywords
// line up.
func frequencyTable(counts []keywords.Count) []string {
	width := 0
	for _, c := range counts {
		if n := runewidth.StringWidth(c.Keyword); n > width {
			width = n
		}
	}

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("   %s  %d", runewidth.FillRight(c.Keyword, width), c.Count))
	}
	return lines
}

func center(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
