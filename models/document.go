package models

import "time"

// Document is a single input file, identified by its file name.
type Document struct {
	Name string
	Path string
}

// ExtractionResult holds the keywords extracted for one document.
// Only successful extractions produce a result.
type ExtractionResult struct {
	Document string   `yaml:"document"`
	Keywords []string `yaml:"keywords"`
}

// Failure records a document that produced no result.
type Failure struct {
	Document string `yaml:"document"`
	Stage    string `yaml:"stage"` // read, extract
	Reason   string `yaml:"reason"`
}

// RunStats summarizes a single extraction run.
type RunStats struct {
	Total     int           `yaml:"total"`
	Succeeded int           `yaml:"succeeded"`
	Failed    int           `yaml:"failed"`
	Duration  time.Duration `yaml:"duration"`
}

// OutputColumns is the fixed width of every CSV row.
const OutputColumns = 4

// OutputRecord converts a result into a CSV row, padding missing keyword slots
// with empty strings.
func (r ExtractionResult) OutputRecord() []string {
	row := make([]string, 0, OutputColumns)
	row = append(row, r.Document)
	for i := 0; i < OutputColumns-1 && i < len(r.Keywords); i++ {
		row = append(row, r.Keywords[i])
	}
	for len(row) < OutputColumns {
		row = append(row, "")
	}
	return row
}

// OutputHeader is the header row of the result CSV.
var OutputHeader = []string{"document", "keyword1", "keyword2", "keyword3"}
