package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	pkgerrors "fyp-portal/pkg/errors"
)

var faculty1 = Caller{UserID: "faculty-1", Role: model.RoleFaculty}

func setupTestRequestService() (SupervisorRequestService, *mockRepos) {
	repo, mocks := newMockRepository()
	mocks.addUser("student-1", "Ayesha Khan", model.RoleStudent)
	mocks.addUser("student-2", "Bilal Ahmed", model.RoleStudent)
	mocks.addFaculty("faculty-1", "Dr. Sara Malik", []string{"Machine Learning", "NLP"}, 2, 0, true)
	mocks.addFaculty("faculty-2", "Dr. Omar Raza", []string{"Networks"}, 1, 1, false)
	mocks.addProject("project-a", "student-1", "AI chatbot system", model.ProjectPending, "nlp", "chatbot")
	return NewSupervisorRequestService(repo, zap.NewNop()), mocks
}

func createRequest(t *testing.T, svc SupervisorRequestService) *dto.SupervisorRequestResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), &dto.CreateSupervisorRequest{
		FacultyID: "faculty-1",
		ProjectID: "project-a",
		Message:   "Would you supervise this?",
	}, student1)
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	return resp
}

// ── Create ──

func TestSupervisorRequestService_Create(t *testing.T) {
	svc, mocks := setupTestRequestService()

	resp := createRequest(t, svc)
	if resp.Status != model.RequestPending {
		t.Errorf("expected pending, got %s", resp.Status)
	}
	// nlp matches, chatbot does not: 30 + 20 + 20
	if resp.MatchScore != 70 {
		t.Errorf("expected match score 70, got %d", resp.MatchScore)
	}
	if resp.ProjectTitle != "AI chatbot system" {
		t.Errorf("expected project title, got %q", resp.ProjectTitle)
	}
	if notes := mocks.notifications.forUser("faculty-1"); len(notes) != 1 {
		t.Errorf("faculty should be notified once, got %d", len(notes))
	}
}

func TestSupervisorRequestService_Create_Rules(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateSupervisorRequest
		caller  Caller
		wantErr error
	}{
		{"not owner", dto.CreateSupervisorRequest{FacultyID: "faculty-1", ProjectID: "project-a"}, student2, ErrProjectForbidden},
		{"unknown project", dto.CreateSupervisorRequest{FacultyID: "faculty-1", ProjectID: "nope"}, student1, ErrProjectNotFound},
		{"unknown faculty", dto.CreateSupervisorRequest{FacultyID: "nope", ProjectID: "project-a"}, student1, ErrFacultyNotFound},
		{"unavailable faculty", dto.CreateSupervisorRequest{FacultyID: "faculty-2", ProjectID: "project-a"}, student1, ErrFacultyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupTestRequestService()
			_, err := svc.Create(context.Background(), &tt.req, tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSupervisorRequestService_Create_Duplicate(t *testing.T) {
	svc, _ := setupTestRequestService()
	createRequest(t, svc)

	_, err := svc.Create(context.Background(), &dto.CreateSupervisorRequest{
		FacultyID: "faculty-1",
		ProjectID: "project-a",
	}, student1)
	if !errors.Is(err, ErrRequestDuplicate) {
		t.Errorf("expected ErrRequestDuplicate, got %v", err)
	}
}

// ── List ──

func TestSupervisorRequestService_List_DefaultsToCaller(t *testing.T) {
	svc, _ := setupTestRequestService()
	createRequest(t, svc)

	mine, err := svc.List(context.Background(), &dto.SupervisorRequestListRequest{}, faculty1)
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("faculty should see one request, got %d", len(mine))
	}

	_, err = svc.List(context.Background(), &dto.SupervisorRequestListRequest{StudentID: "student-1"}, student2)
	if !errors.Is(err, ErrRequestForbidden) {
		t.Errorf("expected ErrRequestForbidden, got %v", err)
	}

	_, err = svc.List(context.Background(), &dto.SupervisorRequestListRequest{}, committee)
	if !errors.Is(err, ErrRequestFilterRequired) {
		t.Errorf("expected ErrRequestFilterRequired, got %v", err)
	}
}

// ── Respond ──

func TestSupervisorRequestService_Accept(t *testing.T) {
	svc, mocks := setupTestRequestService()
	created := createRequest(t, svc)

	resp, err := svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted, Version: created.Version}, faculty1)
	if err != nil {
		t.Fatalf("Respond should succeed: %v", err)
	}
	if resp.Status != model.RequestAccepted || resp.RespondedAt == nil {
		t.Errorf("expected accepted with a response time, got %+v", resp)
	}

	project := mocks.projects.projects["project-a"]
	if project.SupervisorID == nil || *project.SupervisorID != "faculty-1" {
		t.Errorf("supervisor should be assigned, got %v", project.SupervisorID)
	}
	if project.Status != model.ProjectApproved {
		t.Errorf("project should be approved, got %s", project.Status)
	}
	if got := mocks.faculty.profiles["faculty-1"].CurrentStudents; got != 1 {
		t.Errorf("faculty load should be 1, got %d", got)
	}
	notes := mocks.notifications.forUser("student-1")
	if len(notes) != 1 || notes[0].Type != model.NotificationSuccess {
		t.Errorf("student should get one success notification, got %+v", notes)
	}
}

func TestSupervisorRequestService_Accept_AtCapacity(t *testing.T) {
	svc, mocks := setupTestRequestService()
	created := createRequest(t, svc)

	// faculty filled up between request and response
	p := mocks.faculty.profiles["faculty-1"]
	p.CurrentStudents = p.MaxStudents
	mocks.faculty.profiles["faculty-1"] = p

	_, err := svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted}, faculty1)
	if !errors.Is(err, ErrFacultyAtCapacity) {
		t.Fatalf("expected ErrFacultyAtCapacity, got %v", err)
	}
	if mocks.requests.requests[created.ID].Status != model.RequestPending {
		t.Error("request should stay pending")
	}
	if mocks.projects.projects["project-a"].SupervisorID != nil {
		t.Error("project should stay unassigned")
	}
}

func TestSupervisorRequestService_Reject(t *testing.T) {
	svc, mocks := setupTestRequestService()
	created := createRequest(t, svc)

	resp, err := svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestRejected}, faculty1)
	if err != nil {
		t.Fatalf("Respond should succeed: %v", err)
	}
	if resp.Status != model.RequestRejected {
		t.Errorf("expected rejected, got %s", resp.Status)
	}
	if mocks.faculty.profiles["faculty-1"].CurrentStudents != 0 {
		t.Error("rejection must not take capacity")
	}
	if mocks.projects.projects["project-a"].SupervisorID != nil {
		t.Error("rejection must not assign a supervisor")
	}

	_, err = svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted}, faculty1)
	if !errors.Is(err, ErrRequestAlreadyResponded) {
		t.Errorf("expected ErrRequestAlreadyResponded, got %v", err)
	}
}

func TestSupervisorRequestService_Respond_Guards(t *testing.T) {
	svc, _ := setupTestRequestService()
	created := createRequest(t, svc)

	_, err := svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted},
		Caller{UserID: "faculty-2", Role: model.RoleFaculty})
	if !errors.Is(err, ErrRequestForbidden) {
		t.Errorf("other faculty: expected ErrRequestForbidden, got %v", err)
	}

	_, err = svc.Respond(context.Background(), created.ID,
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted, Version: created.Version + 3}, faculty1)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("stale version: expected ErrOptimisticLock, got %v", err)
	}

	_, err = svc.Respond(context.Background(), "missing",
		&dto.RespondSupervisorRequest{Status: model.RequestAccepted}, faculty1)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}
