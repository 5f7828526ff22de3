package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"fyp-portal/internal/dto"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON, or hands it to table for the default format.
func (a *app) emit(w io.Writer, v interface{}, table func(io.Writer) error) error {
	switch a.outputFmt {
	case "json":
		return writeJSON(w, v)
	case "table", "":
		return table(w)
	default:
		return fmt.Errorf("unknown output format: %s", a.outputFmt)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func panelsTable(w io.Writer, panels []dto.PanelResponse) error {
	if len(panels) == 0 {
		_, err := fmt.Fprintln(w, "No panels found.")
		return err
	}

	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		scheduled := "-"
		if p.ScheduledDate != nil {
			scheduled = *p.ScheduledDate
		}
		rows = append(rows, []string{
			p.Name,
			p.Status,
			strconv.Itoa(len(p.ProjectIDs)),
			strconv.Itoa(len(p.EvaluatorIDs)),
			strconv.Itoa(p.OptimizationScore),
			scheduled,
			p.ID,
		})
	}
	return renderTable(w, []string{"Panel", "Status", "Projects", "Evaluators", "Score", "Scheduled", "ID"}, rows)
}

func summaryTable(w io.Writer, s dto.GeneratePanelsSummary) error {
	rows := [][]string{
		{"generation", s.GenerationID},
		{"strategy", s.Constraints.Strategy},
		{"panels created", strconv.Itoa(s.PanelsCreated)},
		{"projects assigned", fmt.Sprintf("%d of %d", s.ProjectsAssigned, s.EligibleProjects)},
		{"evaluators used", fmt.Sprintf("%d of %d", s.EvaluatorsUsed, s.EligibleFaculty)},
		{"average score", strconv.Itoa(s.AverageOptimization)},
		{"supervisor conflicts", strconv.Itoa(s.SupervisorConflicts)},
	}
	return renderTable(w, []string{"Summary", ""}, rows)
}

func recommendationsTable(w io.Writer, recs []dto.RecommendationResponse) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No available faculty.")
		return err
	}

	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		name := r.UserID
		if r.User != nil && r.User.FullName != "" {
			name = r.User.FullName
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			strconv.Itoa(r.MatchScore),
			strings.Join(r.MatchedKeywords, ", "),
			fmt.Sprintf("%d/%d", r.CurrentStudents, r.MaxStudents),
		})
	}
	return renderTable(w, []string{"#", "Faculty", "Match", "Matched keywords", "Load"}, rows)
}
