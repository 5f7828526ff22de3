// Package scoring holds the pure scorers behind duplicate detection,
// proposal acceptability and supervisor matching.
package scoring

import (
	"sort"
	"strings"
)

// Similarity returns the word overlap of a and b in [0,1].
//
// Both strings are lower-cased and split on whitespace. Every token of a
// (repeats included) that appears anywhere in b counts once; the count is
// divided by the longer token list. An empty side scores 0.
func Similarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		inB[w] = struct{}{}
	}

	common := 0
	for _, w := range wordsA {
		if _, ok := inB[w]; ok {
			common++
		}
	}

	return float64(common) / float64(max(len(wordsA), len(wordsB)))
}

// Titled is anything with an id and a title that can be checked for duplicates.
type Titled struct {
	ID    string
	Title string
	Owner string
}

// SimilarTitle one duplicate candidate.
type SimilarTitle struct {
	ID         string
	Title      string
	Similarity float64
}

// FindSimilarTitles compares title against every existing entry and returns
// those scoring strictly above threshold, best first. Entries owned by owner
// and the entry with id self are skipped. Each existing title is scored as
// Similarity(existing, title).
func FindSimilarTitles(title, owner, self string, existing []Titled, threshold float64) []SimilarTitle {
	var hits []SimilarTitle
	for _, e := range existing {
		if e.ID == self || (owner != "" && e.Owner == owner) {
			continue
		}
		if s := Similarity(e.Title, title); s > threshold {
			hits = append(hits, SimilarTitle{ID: e.ID, Title: e.Title, Similarity: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}
