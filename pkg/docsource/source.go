// Package docsource enumerates input documents and loads their text.
package docsource

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/keyword-extractor/models"
)

// UnknownTitle is shown by the report when a document has no heading line.
const UnknownTitle = "unknown title"

// List returns the regular files in dir whose name ends with ext,
// sorted by name.
func List(dir, ext string) ([]models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	docs := make([]models.Document, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		docs = append(docs, models.Document{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})

	return docs, nil
}

// Load reads the text of a document. HTML documents are reduced to their
// readable article text first.
func Load(doc models.Document) (string, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", fmt.Errorf("error reading document %s: %w", doc.Name, err)
	}

	if isHTML(doc.Path) {
		article, err := parseHTML(doc.Path, string(data))
		if err != nil {
			return "", fmt.Errorf("error parsing document %s: %w", doc.Name, err)
		}
		return article.Text, nil
	}

	return string(data), nil
}

// Title returns the display title of the document at path: the first line
// with its heading markers removed, or "" if the first line is not a heading.
func Title(path string) string {
	if isHTML(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		article, err := parseHTML(path, string(data))
		if err != nil {
			return ""
		}
		return article.Title
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return ""
	}
	return HeadingTitle(scanner.Text())
}

// HeadingTitle extracts a title from a markdown heading line.
func HeadingTitle(line string) string {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if !strings.HasPrefix(line, "#") {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
