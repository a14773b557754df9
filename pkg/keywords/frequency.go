// Package keywords computes keyword frequency statistics across documents.
package keywords

import (
	"sort"
	"strings"
)

// Count is a keyword and how many times it occurs across result rows.
type Count struct {
	Keyword string
	Count   int
}

// Map counts the keywords of a single document. Empty keywords are ignored.
func Map(keywords []string) map[string]int {
	counts := make(map[string]int, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		counts[k]++
	}
	return counts
}

// Reduce aggregates per-document counts into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// Repeated returns the keywords counted at least min times, most frequent
// first. Ties are ordered by keyword so output is stable.
func Repeated(counts map[string]int, min int) []Count {
	var out []Count
	for k, v := range counts {
		if v >= min {
			out = append(out, Count{Keyword: k, Count: v})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})

	return out
}

// Top returns at most n of the most frequent keywords.
func Top(counts map[string]int, n int) []Count {
	all := Repeated(counts, 1)
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}
