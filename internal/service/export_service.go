package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── export errors ──

var (
	ErrExportNoPanels     = errors.New("no panels to export")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// panelSlot how long a scheduled panel is blocked out in the calendar.
const panelSlot = 2 * time.Hour

// ExportService renders panels for people outside the portal.
//
// Both exports return the file in a buffer together with a suggested file
// name; the handler sets the download headers.
type ExportService interface {
	// ExportPanels writes a panel roster workbook (.xlsx).
	ExportPanels(ctx context.Context, req *dto.PanelListRequest) (*bytes.Buffer, string, error)
	// ExportCalendar writes every scheduled panel as an iCalendar feed (.ics).
	ExportCalendar(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// panelRow one panel with ids resolved to display values.
type panelRow struct {
	panel      model.Panel
	projects   []string
	evaluators []string
	emails     []string
}

// ═══════════════════════════════════════════════════════════
// ExportPanels
// ═══════════════════════════════════════════════════════════
//
// Sheet "Panels": one row per panel.
// Sheet "Assignments": one row per (panel, project) with student and supervisor.

func (s *exportService) ExportPanels(ctx context.Context, req *dto.PanelListRequest) (*bytes.Buffer, string, error) {
	panels, err := s.repo.Panel.List(ctx, repository.PanelFilter{Status: req.Status, GenerationID: req.GenerationID})
	if err != nil {
		s.logger.Error("list panels for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(panels) == 0 {
		return nil, "", ErrExportNoPanels
	}

	rows, projects, users, err := s.resolve(ctx, panels)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Panels"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	headers := []string{"Panel", "Status", "Scheduled", "Room", "Projects", "Evaluators", "Optimization Score", "Generation"}
	widths := []float64{14, 12, 22, 14, 50, 36, 12, 38}
	writeHeader(f, sheet, headers, widths, headerStyle)

	for i, r := range rows {
		row := i + 2
		scheduled := ""
		if r.panel.ScheduledDate != nil {
			scheduled = formatTime(*r.panel.ScheduledDate)
		}
		room := ""
		if r.panel.Room != nil {
			room = *r.panel.Room
		}
		values := []any{
			r.panel.Name,
			r.panel.Status,
			scheduled,
			room,
			strings.Join(r.projects, "\n"),
			strings.Join(r.evaluators, "\n"),
			r.panel.OptimizationScore,
			r.panel.GenerationID,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellName(col, row), v)
		}
		f.SetCellStyle(sheet, cellName(4, row), cellName(5, row), wrapStyle)
	}

	const detail = "Assignments"
	f.NewSheet(detail)
	writeHeader(f, detail,
		[]string{"Panel", "Project", "Domain", "Student", "Supervisor"},
		[]float64{14, 50, 20, 28, 28},
		headerStyle)

	row := 2
	for _, r := range rows {
		for _, id := range r.panel.ProjectIDs {
			p, ok := projects[id]
			if !ok {
				continue
			}
			supervisor := ""
			if p.SupervisorID != nil {
				supervisor = displayName(users, *p.SupervisorID)
			}
			values := []any{r.panel.Name, p.Title, p.Domain, displayName(users, p.StudentID), supervisor}
			for col, v := range values {
				f.SetCellValue(detail, cellName(col, row), v)
			}
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("panels_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context) (*bytes.Buffer, string, error) {
	panels, err := s.repo.Panel.List(ctx, repository.PanelFilter{Status: model.PanelScheduled})
	if err != nil {
		s.logger.Error("list scheduled panels failed", zap.Error(err))
		return nil, "", err
	}
	if len(panels) == 0 {
		return nil, "", ErrExportNoPanels
	}

	rows, _, _, err := s.resolve(ctx, panels)
	if err != nil {
		return nil, "", err
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//FYP Portal//Evaluation Panels//EN")
	cal.SetXWRCalName("FYP evaluation panels")

	for _, r := range rows {
		if r.panel.ScheduledDate == nil {
			continue
		}
		start := r.panel.ScheduledDate.UTC()

		ev := cal.AddEvent(r.panel.PanelID + "@fyp-portal")
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(panelSlot))
		ev.SetSummary(r.panel.Name)
		if r.panel.Room != nil {
			ev.SetLocation(*r.panel.Room)
		}

		var desc strings.Builder
		desc.WriteString("Projects:\n")
		for _, title := range r.projects {
			desc.WriteString("- " + title + "\n")
		}
		desc.WriteString("Evaluators: " + strings.Join(r.evaluators, ", "))
		ev.SetDescription(desc.String())

		for _, email := range r.emails {
			ev.AddAttendee("mailto:" + email)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "panels.ics", nil
}

// ── helpers ──

// resolve loads the projects and evaluators referenced by panels in two queries.
func (s *exportService) resolve(ctx context.Context, panels []model.Panel) ([]panelRow, map[string]model.Project, map[string]model.User, error) {
	var projectIDs, userIDs []string
	for _, p := range panels {
		projectIDs = append(projectIDs, p.ProjectIDs...)
		userIDs = append(userIDs, p.EvaluatorIDs...)
	}

	projectList, err := s.repo.Project.GetByIDs(ctx, dedupe(projectIDs))
	if err != nil {
		s.logger.Error("load panel projects failed", zap.Error(err))
		return nil, nil, nil, err
	}
	projects := make(map[string]model.Project, len(projectList))
	for _, p := range projectList {
		projects[p.ProjectID] = p
		userIDs = append(userIDs, p.StudentID)
		if p.SupervisorID != nil {
			userIDs = append(userIDs, *p.SupervisorID)
		}
	}

	userList, err := s.repo.User.GetByIDs(ctx, dedupe(userIDs))
	if err != nil {
		s.logger.Error("load panel users failed", zap.Error(err))
		return nil, nil, nil, err
	}
	users := make(map[string]model.User, len(userList))
	for _, u := range userList {
		users[u.UserID] = u
	}

	rows := make([]panelRow, 0, len(panels))
	for _, p := range panels {
		r := panelRow{panel: p}
		for _, id := range p.ProjectIDs {
			if proj, ok := projects[id]; ok {
				r.projects = append(r.projects, proj.Title)
			} else {
				r.projects = append(r.projects, id)
			}
		}
		for _, id := range p.EvaluatorIDs {
			r.evaluators = append(r.evaluators, displayName(users, id))
			if u, ok := users[id]; ok && u.Email != "" {
				r.emails = append(r.emails, u.Email)
			}
		}
		rows = append(rows, r)
	}
	return rows, projects, users, nil
}

func displayName(users map[string]model.User, id string) string {
	if u, ok := users[id]; ok {
		return u.FullName
	}
	return id
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i, 1), h)
		col := colName(i)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	f.SetCellStyle(sheet, cellName(0, 1), cellName(len(headers)-1, 1), style)
}

// colName maps a zero-based column index to its letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
