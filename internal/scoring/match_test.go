package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_EmptyKeywordsIsNeutral(t *testing.T) {
	profiles := []Profile{
		{},
		{Expertise: []string{"AI"}, MaxStudents: 5, Available: true},
		{MaxStudents: 0, Available: false},
	}
	for _, p := range profiles {
		assert.Equal(t, 50, MatchScore(p, nil))
		assert.Equal(t, 50, MatchScore(p, []string{}))
		assert.Equal(t, 50, MatchScore(p, []string{"  ", ""}))
	}
}

func TestMatch_UnavailableZeroCapacityNoOverlap(t *testing.T) {
	p := Profile{
		Expertise:   []string{"Databases"},
		MaxStudents: 0,
		Available:   false,
	}
	score := MatchScore(p, []string{"robotics", "vision"})
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 40)
	assert.Equal(t, 0, score)
}

func TestMatch_Components(t *testing.T) {
	p := Profile{
		Expertise:         []string{"Machine Learning", "Computer Vision"},
		ResearchInterests: []string{"NLP"},
		MaxStudents:       5,
		CurrentStudents:   2,
		Available:         true,
	}

	// learning ⊂ machine learning; nlp == nlp; blockchain misses
	res := Match(p, []string{"Learning", "nlp", "blockchain"})
	assert.Equal(t, []string{"Learning", "nlp"}, res.MatchedKeywords)
	// 2/3*60 + 20 + 3/5*20 = 40 + 20 + 12
	assert.Equal(t, 72, res.Score)
}

func TestMatch_CapabilityInsideKeyword(t *testing.T) {
	p := Profile{Expertise: []string{"AI"}, MaxStudents: 1}
	res := Match(p, []string{"AI-driven tutoring"})
	assert.Equal(t, []string{"AI-driven tutoring"}, res.MatchedKeywords)
	assert.Equal(t, 80, res.Score)
}

func TestMatch_IgnoresEmptyCapabilities(t *testing.T) {
	p := Profile{Expertise: []string{"", "  "}, MaxStudents: 2}
	res := Match(p, []string{"robotics"})
	assert.Empty(t, res.MatchedKeywords)
	assert.Equal(t, 20, res.Score)
}

func TestMatch_OverCapacityFloorsAtZero(t *testing.T) {
	p := Profile{MaxStudents: 2, CurrentStudents: 5, Available: true}
	assert.Equal(t, 20, MatchScore(p, []string{"x"}))
}

func TestMatch_Bounds(t *testing.T) {
	p := Profile{Expertise: []string{"a"}, MaxStudents: 3, Available: true}
	assert.Equal(t, 100, MatchScore(p, []string{"a"}))
}

func TestMatch_Rounding(t *testing.T) {
	// 1/3*60 = 20, capacity 1/3*20 = 6.67 -> 26.67 rounds to 27
	p := Profile{Expertise: []string{"go"}, MaxStudents: 3, CurrentStudents: 2}
	assert.Equal(t, 27, MatchScore(p, []string{"go", "rust", "zig"}))
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{}, ParseKeywords(""))
	assert.Equal(t, []string{}, ParseKeywords(" , ,"))
	assert.Equal(t, []string{"ai", "machine learning"}, ParseKeywords(" ai, machine learning ,"))
}

func TestRank_Order(t *testing.T) {
	base := Profile{Expertise: []string{"ai"}, MaxStudents: 4, Available: true}
	candidates := []Candidate{
		{UserID: "f-c", SuccessRate: 70, Profile: base},
		{UserID: "f-b", SuccessRate: 90, Profile: base},
		{UserID: "f-a", SuccessRate: 70, Profile: base},
		{UserID: "f-low", SuccessRate: 99, Profile: Profile{MaxStudents: 4}},
	}

	ranked := Rank(candidates, []string{"ai"})
	require.Len(t, ranked, 4)

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.UserID
	}
	assert.Equal(t, []string{"f-b", "f-a", "f-c", "f-low"}, ids)
	assert.Equal(t, 100, ranked[0].Score)
	assert.Equal(t, 20, ranked[3].Score)
}
