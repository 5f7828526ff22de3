package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
)

func setupTestExportService() (ExportService, *mockRepos) {
	repo, mocks := newMockRepository()
	mocks.addUser("student-1", "Ayesha Khan", model.RoleStudent)
	mocks.addFaculty("faculty-1", "Dr. Sara Malik", []string{"AI"}, 5, 0, true)
	mocks.addFaculty("faculty-2", "Dr. Omar Raza", []string{"IoT"}, 5, 0, true)
	mocks.addProject("project-a", "student-1", "AI chatbot system", model.ProjectApproved, "ai")
	mocks.addProject("project-b", "student-1", "Smart irrigation", model.ProjectApproved, "iot")

	svc := NewExportService(repo, zap.NewNop())
	svc.(*exportService).now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc, mocks
}

func addPanel(mocks *mockRepos, p model.Panel) {
	if p.Version == 0 {
		p.Version = 1
	}
	mocks.panels.panels[p.PanelID] = p
	mocks.panels.order = append(mocks.panels.order, p.PanelID)
}

func TestExportService_ExportPanels(t *testing.T) {
	svc, mocks := setupTestExportService()
	addPanel(mocks, model.Panel{
		PanelID:      "panel-1",
		Name:         "Panel 1",
		ProjectIDs:   model.StringArray{"project-a", "project-b"},
		EvaluatorIDs: model.StringArray{"faculty-1", "faculty-2"},
		Status:       model.PanelDraft,
	})

	buf, filename, err := svc.ExportPanels(context.Background(), &dto.PanelListRequest{})
	if err != nil {
		t.Fatalf("ExportPanels should succeed: %v", err)
	}
	if filename != "panels_20261018.xlsx" {
		t.Errorf("unexpected filename %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("output should be a workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Panels", "A2"); got != "Panel 1" {
		t.Errorf("A2: expected Panel 1, got %q", got)
	}
	projects, _ := f.GetCellValue("Panels", "E2")
	if !strings.Contains(projects, "AI chatbot system") || !strings.Contains(projects, "Smart irrigation") {
		t.Errorf("E2 should list project titles, got %q", projects)
	}
	if got, _ := f.GetCellValue("Panels", "F2"); !strings.Contains(got, "Dr. Omar Raza") {
		t.Errorf("F2 should list evaluator names, got %q", got)
	}

	rows, err := f.GetRows("Assignments")
	if err != nil {
		t.Fatalf("Assignments sheet missing: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected header plus 2 assignment rows, got %d", len(rows))
	}
	if rows[1][3] != "Ayesha Khan" {
		t.Errorf("expected student name, got %q", rows[1][3])
	}
}

func TestExportService_ExportPanels_Empty(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportPanels(context.Background(), &dto.PanelListRequest{})
	if !errors.Is(err, ErrExportNoPanels) {
		t.Errorf("expected ErrExportNoPanels, got %v", err)
	}
}

func TestExportService_ExportCalendar(t *testing.T) {
	svc, mocks := setupTestExportService()
	when := time.Date(2026, 11, 3, 9, 0, 0, 0, time.UTC)
	room := "CS-101"
	addPanel(mocks, model.Panel{
		PanelID:       "panel-1",
		Name:          "Panel 1",
		ProjectIDs:    model.StringArray{"project-a"},
		EvaluatorIDs:  model.StringArray{"faculty-1", "faculty-2"},
		Status:        model.PanelScheduled,
		ScheduledDate: &when,
		Room:          &room,
	})
	addPanel(mocks, model.Panel{
		PanelID:      "panel-2",
		Name:         "Panel 2",
		ProjectIDs:   model.StringArray{"project-b"},
		EvaluatorIDs: model.StringArray{"faculty-1"},
		Status:       model.PanelDraft,
	})

	buf, filename, err := svc.ExportCalendar(context.Background())
	if err != nil {
		t.Fatalf("ExportCalendar should succeed: %v", err)
	}
	if filename != "panels.ics" {
		t.Errorf("unexpected filename %s", filename)
	}

	cal, err := ics.ParseCalendar(buf)
	if err != nil {
		t.Fatalf("output should parse as iCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("only scheduled panels are exported, got %d events", len(events))
	}

	ev := events[0]
	if got := ev.GetProperty(ics.ComponentPropertySummary).Value; got != "Panel 1" {
		t.Errorf("summary: expected Panel 1, got %q", got)
	}
	if got := ev.GetProperty(ics.ComponentPropertyLocation).Value; got != "CS-101" {
		t.Errorf("location: expected CS-101, got %q", got)
	}
	start, err := ev.GetStartAt()
	if err != nil || !start.Equal(when) {
		t.Errorf("start: expected %v, got %v (%v)", when, start, err)
	}
	end, err := ev.GetEndAt()
	if err != nil || !end.Equal(when.Add(2*time.Hour)) {
		t.Errorf("end: expected two hour slot, got %v (%v)", end, err)
	}
	if n := len(ev.Attendees()); n != 2 {
		t.Errorf("expected 2 attendees, got %d", n)
	}
}

func TestExportService_ExportCalendar_NothingScheduled(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportCalendar(context.Background())
	if !errors.Is(err, ErrExportNoPanels) {
		t.Errorf("expected ErrExportNoPanels, got %v", err)
	}
}
