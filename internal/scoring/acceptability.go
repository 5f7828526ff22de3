package scoring

import "unicode/utf8"

const (
	acceptabilityBase = 50

	longDescriptionChars = 200
	longDescriptionPts   = 20
	minKeywords          = 3
	keywordsPts          = 15
	longTitleChars       = 20
	longTitlePts         = 15
)

// Likelihood labels
const (
	LikelihoodHigh     = "High Likelihood"
	LikelihoodModerate = "Moderate Likelihood"
	LikelihoodLow      = "Low Likelihood"
)

// Proposal the structural parts of a project the acceptability heuristic reads.
type Proposal struct {
	Title       string
	Description string
	Keywords    []string
}

// Factor one line of the acceptability breakdown.
type Factor struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// AcceptabilityReport score plus the reasoning behind it.
type AcceptabilityReport struct {
	Score       int      `json:"score"`
	Likelihood  string   `json:"likelihood"`
	Factors     []Factor `json:"factors"`
	Suggestions []string `json:"suggestions"`
}

// Acceptability scores a proposal's structural completeness from 50 to 100.
// It rewards length and keyword count, not content. Lengths are counted in
// Unicode code points.
func Acceptability(p Proposal) AcceptabilityReport {
	report := AcceptabilityReport{
		Score:       acceptabilityBase,
		Factors:     make([]Factor, 0, 3),
		Suggestions: []string{},
	}

	add := func(name string, passed bool, pts int, ok, suggestion string) {
		f := Factor{Name: name, Passed: passed, Message: ok}
		if passed {
			f.Points = pts
			report.Score += pts
		} else {
			f.Message = suggestion
			report.Suggestions = append(report.Suggestions, suggestion)
		}
		report.Factors = append(report.Factors, f)
	}

	add("Detailed Description",
		utf8.RuneCountInString(p.Description) > longDescriptionChars, longDescriptionPts,
		"Description gives reviewers enough detail",
		"Expand the description beyond 200 characters with objectives, approach and deliverables")
	add("Keyword Coverage",
		len(p.Keywords) >= minKeywords, keywordsPts,
		"Keywords cover the project's technical areas",
		"Add at least 3 keywords so the project can be matched with supervisors")
	add("Descriptive Title",
		utf8.RuneCountInString(p.Title) > longTitleChars, longTitlePts,
		"Title is specific",
		"Use a more descriptive title of more than 20 characters")

	report.Score = min(report.Score, 100)
	report.Likelihood = LikelihoodLabel(report.Score)
	return report
}

// AcceptabilityScore is Acceptability without the breakdown.
func AcceptabilityScore(p Proposal) int {
	return Acceptability(p).Score
}

// LikelihoodLabel buckets a score for display.
func LikelihoodLabel(score int) string {
	switch {
	case score >= 80:
		return LikelihoodHigh
	case score >= 60:
		return LikelihoodModerate
	default:
		return LikelihoodLow
	}
}
