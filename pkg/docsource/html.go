package docsource

import (
	"bufio"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type htmlArticle struct {
	Title string
	Text  string
}

// parseHTML uses go-readability to find the main content, then flattens the
// distilled HTML into one text block per line with goquery.
func parseHTML(path, html string) (*htmlArticle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, err
	}

	var blocks []string
	doc.Find("h1,h2,h3,h4,p,li,pre,td").Each(func(i int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	title := normalizeText(article.Title)
	if title == "" {
		title = normalizeText(doc.Find("h1").First().Text())
	}

	return &htmlArticle{
		Title: title,
		Text:  strings.Join(blocks, "\n"),
	}, nil
}

// normalizeText trims every line and joins the non-empty ones with a space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
