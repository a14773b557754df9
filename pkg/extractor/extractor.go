// Package extractor turns document text into a short keyword list by
// querying an external language model service.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultKeywords is the number of keywords requested per document.
const DefaultKeywords = 3

// Outcome is the result of one extraction call. A non-empty Reason marks a
// failure; otherwise Keywords holds 1 to limit keywords.
type Outcome struct {
	Keywords []string
	Reason   string
}

// OK reports whether the extraction succeeded.
func (o Outcome) OK() bool {
	return o.Reason == ""
}

// Success builds a successful outcome.
func Success(keywords []string) Outcome {
	return Outcome{Keywords: keywords}
}

// Failure builds a failed outcome.
func Failure(reason string) Outcome {
	if reason == "" {
		reason = "unknown error"
	}
	return Outcome{Reason: reason}
}

// Extractor wraps a Service with prompt construction and response parsing.
type Extractor struct {
	service  Service
	limit    int
	language string
	detector lingua.LanguageDetector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLimit sets how many keywords are requested and kept.
func WithLimit(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithLanguage fixes the prompt language (zh, en) or enables detection (auto).
func WithLanguage(language string) Option {
	return func(e *Extractor) {
		e.language = language
	}
}

// New creates an Extractor backed by service.
func New(service Service, opts ...Option) *Extractor {
	e := &Extractor{
		service:  service,
		limit:    DefaultKeywords,
		language: LanguageAuto,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.language == LanguageAuto || e.language == "" {
		e.detector = newDetector()
	}
	return e
}

// Extract makes exactly one service call for text. Every error, including a
// panic in the call path, is reported as a failed Outcome.
func (e *Extractor) Extract(ctx context.Context, text string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failure(fmt.Sprintf("panic: %v", r))
		}
	}()

	prompt := BuildPrompt(e.promptLanguage(text), text, e.limit)

	resp, err := e.service.Query(ctx, prompt)
	if err != nil {
		return Failure(err.Error())
	}
	if resp.ReturnCode != 0 {
		reason := strings.TrimSpace(resp.Error)
		if reason == "" {
			reason = fmt.Sprintf("service exited with status %d", resp.ReturnCode)
		}
		return Failure(reason)
	}

	keywords := ParseKeywords(resp.Output, e.limit)
	if len(keywords) == 0 {
		return Failure("empty response")
	}
	return Success(keywords)
}

// ParseKeywords splits a raw reply on ASCII or full-width commas, trims each
// token, drops empty ones and keeps at most limit. It never pads.
func ParseKeywords(raw string, limit int) []string {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), "，", ",")

	var keywords []string
	for _, token := range strings.Split(normalized, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		keywords = append(keywords, token)
		if limit > 0 && len(keywords) == limit {
			break
		}
	}
	return keywords
}
