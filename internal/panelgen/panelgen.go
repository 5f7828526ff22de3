// Package panelgen partitions approved projects into evaluation panels and
// assigns faculty evaluators to each one.
package panelgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"fyp-portal/internal/scoring"
)

// Defaults used when a constraint is zero.
const (
	DefaultProjectsPerPanel   = 5
	DefaultEvaluatorsPerPanel = 3
)

// Strategy how evaluators are picked for a panel.
type Strategy string

const (
	// StrategyRandom shuffles all faculty for every panel and takes a prefix.
	StrategyRandom Strategy = "random"
	// StrategyExpertise picks the best matching faculty for the panel's projects,
	// spreading load and avoiding a project's own supervisor.
	StrategyExpertise Strategy = "expertise"
)

// loadPenalty points subtracted per panel an evaluator already sits on.
const loadPenalty = 10.0

// Constraints generation parameters.
type Constraints struct {
	ProjectsPerPanel   int
	EvaluatorsPerPanel int
	Strategy           Strategy
}

// WithDefaults fills zero values.
func (c Constraints) WithDefaults() Constraints {
	if c.ProjectsPerPanel <= 0 {
		c.ProjectsPerPanel = DefaultProjectsPerPanel
	}
	if c.EvaluatorsPerPanel <= 0 {
		c.EvaluatorsPerPanel = DefaultEvaluatorsPerPanel
	}
	if c.Strategy == "" {
		c.Strategy = StrategyRandom
	}
	return c
}

// Validate rejects unknown strategies and negative sizes.
func (c Constraints) Validate() error {
	if c.ProjectsPerPanel < 0 || c.EvaluatorsPerPanel < 0 {
		return fmt.Errorf("panel sizes must not be negative")
	}
	switch c.Strategy {
	case "", StrategyRandom, StrategyExpertise:
		return nil
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
}

// Project an eligible project.
type Project struct {
	ID           string
	Keywords     []string
	SupervisorID string
}

// Evaluator an eligible faculty member.
type Evaluator struct {
	UserID  string
	Profile scoring.Profile
}

// Draft a panel before it is persisted.
type Draft struct {
	Name              string
	ProjectIDs        []string
	EvaluatorIDs      []string
	OptimizationScore int
	// Conflicts evaluators on this panel who supervise one of its projects.
	Conflicts int
}

// Result every draft of one run plus totals.
type Result struct {
	Panels      []Draft
	Constraints Constraints
	Conflicts   int
}

// Generate builds panels over projects in input order. Empty projects or
// empty faculty produce no panels. rng drives the random strategy; nil uses
// the package-level source.
func Generate(projects []Project, faculty []Evaluator, c Constraints, rng *rand.Rand) Result {
	c = c.WithDefaults()
	res := Result{Panels: []Draft{}, Constraints: c}
	if len(projects) == 0 || len(faculty) == 0 {
		return res
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	load := make(map[string]int, len(faculty))

	for start := 0; start < len(projects); start += c.ProjectsPerPanel {
		chunk := projects[start:min(start+c.ProjectsPerPanel, len(projects))]

		var chosen []Evaluator
		switch c.Strategy {
		case StrategyExpertise:
			chosen = pickByExpertise(chunk, faculty, c.EvaluatorsPerPanel, load)
		default:
			pool := slices.Clone(faculty)
			shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
			chosen = pool[:min(c.EvaluatorsPerPanel, len(pool))]
		}

		d := Draft{
			Name:         fmt.Sprintf("Panel %d", len(res.Panels)+1),
			ProjectIDs:   make([]string, len(chunk)),
			EvaluatorIDs: make([]string, len(chosen)),
		}
		for i, p := range chunk {
			d.ProjectIDs[i] = p.ID
		}
		for i, e := range chosen {
			d.EvaluatorIDs[i] = e.UserID
			load[e.UserID]++
		}
		d.OptimizationScore = OptimizationScore(chunk, chosen)
		d.Conflicts = countConflicts(chunk, d.EvaluatorIDs)

		res.Conflicts += d.Conflicts
		res.Panels = append(res.Panels, d)
	}

	return res
}

// OptimizationScore is the rounded mean match score over every
// (evaluator, project) pair, each pair scoring the evaluator's profile
// against the project's keywords.
func OptimizationScore(projects []Project, evaluators []Evaluator) int {
	if len(projects) == 0 || len(evaluators) == 0 {
		return 0
	}
	total := 0
	for _, e := range evaluators {
		for _, p := range projects {
			total += scoring.MatchScore(e.Profile, p.Keywords)
		}
	}
	return int(math.Round(float64(total) / float64(len(projects)*len(evaluators))))
}

func pickByExpertise(chunk []Project, faculty []Evaluator, n int, load map[string]int) []Evaluator {
	supervisors := make(map[string]bool, len(chunk))
	for _, p := range chunk {
		if p.SupervisorID != "" {
			supervisors[p.SupervisorID] = true
		}
	}

	type candidate struct {
		ev        Evaluator
		score     float64
		supervise bool
	}
	cands := make([]candidate, len(faculty))
	for i, f := range faculty {
		sum := 0
		for _, p := range chunk {
			sum += scoring.MatchScore(f.Profile, p.Keywords)
		}
		cands[i] = candidate{
			ev:        f,
			score:     float64(sum)/float64(len(chunk)) - loadPenalty*float64(load[f.UserID]),
			supervise: supervisors[f.UserID],
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.supervise != b.supervise {
			return !a.supervise
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.ev.UserID < b.ev.UserID
	})

	n = min(n, len(cands))
	out := make([]Evaluator, n)
	for i := 0; i < n; i++ {
		out[i] = cands[i].ev
	}
	return out
}

func countConflicts(chunk []Project, evaluatorIDs []string) int {
	supervisors := make(map[string]bool, len(chunk))
	for _, p := range chunk {
		if p.SupervisorID != "" {
			supervisors[p.SupervisorID] = true
		}
	}
	n := 0
	for _, id := range evaluatorIDs {
		if supervisors[id] {
			n++
		}
	}
	return n
}
