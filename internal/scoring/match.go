package scoring

import (
	"math"
	"sort"
	"strings"
)

const (
	neutralMatchScore = 50

	expertiseWeight    = 60.0
	availabilityPoints = 20.0
	capacityWeight     = 20.0
)

// Profile the parts of a faculty profile the match score reads.
type Profile struct {
	Expertise         []string
	ResearchInterests []string
	MaxStudents       int
	CurrentStudents   int
	Available         bool
}

// MatchResult score in [0,100] and the keywords that hit a capability.
type MatchResult struct {
	Score           int
	MatchedKeywords []string
}

// NormalizeKeywords trims every keyword and drops empty ones, keeping order.
func NormalizeKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ParseKeywords splits a comma separated list and normalizes it.
func ParseKeywords(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	return NormalizeKeywords(strings.Split(csv, ","))
}

// Match scores how well a profile fits the given keywords.
//
//	expertise    = matched/len(keywords) * 60
//	availability = 20 when available
//	capacity     = remaining/max * 20, 0 when max is 0
//
// A keyword matches when it contains, or is contained in, any lower-cased
// expertise or research interest. No keywords gives the neutral score 50.
func Match(p Profile, keywords []string) MatchResult {
	keywords = NormalizeKeywords(keywords)
	if len(keywords) == 0 {
		return MatchResult{Score: neutralMatchScore, MatchedKeywords: []string{}}
	}

	capabilities := make([]string, 0, len(p.Expertise)+len(p.ResearchInterests))
	for _, c := range append(append([]string{}, p.Expertise...), p.ResearchInterests...) {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			capabilities = append(capabilities, c)
		}
	}

	matched := []string{}
	for _, k := range keywords {
		lk := strings.ToLower(k)
		for _, c := range capabilities {
			if strings.Contains(c, lk) || strings.Contains(lk, c) {
				matched = append(matched, k)
				break
			}
		}
	}

	expertise := float64(len(matched)) / float64(len(keywords)) * expertiseWeight

	availability := 0.0
	if p.Available {
		availability = availabilityPoints
	}

	capacity := 0.0
	if p.MaxStudents > 0 {
		remaining := max(p.MaxStudents-max(p.CurrentStudents, 0), 0)
		capacity = float64(remaining) / float64(p.MaxStudents) * capacityWeight
	}

	score := int(math.Round(expertise + availability + capacity))
	return MatchResult{
		Score:           min(max(score, 0), 100),
		MatchedKeywords: matched,
	}
}

// MatchScore is Match without the matched keywords.
func MatchScore(p Profile, keywords []string) int {
	return Match(p, keywords).Score
}

// Candidate a faculty member being ranked.
type Candidate struct {
	UserID      string
	SuccessRate int
	Profile     Profile
}

// Ranked a candidate with its match result.
type Ranked struct {
	Candidate
	MatchResult
}

// Rank scores every candidate and orders them by score, then success rate
// (both descending), then user id.
func Rank(candidates []Candidate, keywords []string) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{Candidate: c, MatchResult: Match(c.Profile, keywords)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		return a.UserID < b.UserID
	})
	return ranked
}
