package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
)

func setupTestFacultyService() (FacultyService, RecommendationService, *mockRepos) {
	repo, mocks := newMockRepository()
	mocks.addFaculty("faculty-1", "Dr. Sara Malik", []string{"Machine Learning", "NLP"}, 4, 1, true)
	mocks.addFaculty("faculty-2", "Dr. Omar Raza", []string{"Computer Networks", "IoT"}, 5, 0, true)
	mocks.addFaculty("faculty-3", "Dr. Hina Shah", []string{"NLP"}, 3, 0, false)
	mocks.addUser("faculty-4", "Dr. New Hire", model.RoleFaculty)
	mocks.addUser("student-1", "Ayesha Khan", model.RoleStudent)
	return NewFacultyService(repo, zap.NewNop()), NewRecommendationService(repo, zap.NewNop()), mocks
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

// ── FacultyService ──

func TestFacultyService_List_Available(t *testing.T) {
	svc, _, _ := setupTestFacultyService()

	all, err := svc.List(context.Background(), &dto.FacultyProfileListRequest{})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(all))
	}

	available, _ := svc.List(context.Background(), &dto.FacultyProfileListRequest{Available: boolPtr(true)})
	if len(available) != 2 {
		t.Errorf("expected 2 available, got %d", len(available))
	}
}

func TestFacultyService_Update_Self(t *testing.T) {
	svc, _, mocks := setupTestFacultyService()

	resp, err := svc.Update(context.Background(), "faculty-1", &dto.UpdateFacultyProfileRequest{
		ResearchInterests: []string{" Chatbots ", ""},
		Available:         boolPtr(false),
	}, Caller{UserID: "faculty-1", Role: model.RoleFaculty})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if len(resp.ResearchInterests) != 1 || resp.ResearchInterests[0] != "Chatbots" {
		t.Errorf("interests should be normalized, got %v", resp.ResearchInterests)
	}
	if resp.Available {
		t.Error("expected unavailable")
	}
	if mocks.faculty.profiles["faculty-1"].Version != 2 {
		t.Errorf("expected version 2, got %d", mocks.faculty.profiles["faculty-1"].Version)
	}
}

func TestFacultyService_Update_CreatesProfile(t *testing.T) {
	svc, _, mocks := setupTestFacultyService()

	resp, err := svc.Update(context.Background(), "faculty-4", &dto.UpdateFacultyProfileRequest{
		Expertise: []string{"Databases"},
	}, committee)
	if err != nil {
		t.Fatalf("Update should create the profile: %v", err)
	}
	if resp.MaxStudents != 5 || !resp.Available {
		t.Errorf("new profile should use defaults, got %+v", resp)
	}
	if _, ok := mocks.faculty.profiles["faculty-4"]; !ok {
		t.Error("profile should be stored")
	}
}

func TestFacultyService_Update_Rules(t *testing.T) {
	svc, _, _ := setupTestFacultyService()
	ctx := context.Background()

	_, err := svc.Update(ctx, "faculty-1", &dto.UpdateFacultyProfileRequest{}, Caller{UserID: "faculty-2", Role: model.RoleFaculty})
	if !errors.Is(err, ErrFacultyForbidden) {
		t.Errorf("expected ErrFacultyForbidden, got %v", err)
	}

	_, err = svc.Update(ctx, "student-1", &dto.UpdateFacultyProfileRequest{}, committee)
	if !errors.Is(err, ErrUserNotFaculty) {
		t.Errorf("expected ErrUserNotFaculty, got %v", err)
	}

	_, err = svc.Update(ctx, "faculty-1", &dto.UpdateFacultyProfileRequest{MaxStudents: intPtr(0)}, committee)
	if !errors.Is(err, ErrMaxBelowCurrent) {
		t.Errorf("expected ErrMaxBelowCurrent, got %v", err)
	}

	_, err = svc.Get(ctx, "nobody")
	if !errors.Is(err, ErrFacultyNotFound) {
		t.Errorf("expected ErrFacultyNotFound, got %v", err)
	}
}

// ── RecommendationService ──

func TestRecommendationService_RanksAvailableFaculty(t *testing.T) {
	_, svc, _ := setupTestFacultyService()

	result, err := svc.Recommend(context.Background(), &dto.RecommendationRequest{
		ProjectKeywords: strPtr("machine learning, nlp"),
	})
	if err != nil {
		t.Fatalf("Recommend should succeed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("only available faculty are ranked, got %d", len(result))
	}
	// faculty-1: 60 + 20 + 15 = 95; faculty-2: 0 + 20 + 20 = 40
	if result[0].UserID != "faculty-1" || result[0].MatchScore != 95 {
		t.Errorf("expected faculty-1 with 95 first, got %s %d", result[0].UserID, result[0].MatchScore)
	}
	if result[1].MatchScore != 40 {
		t.Errorf("expected 40 for faculty-2, got %d", result[1].MatchScore)
	}
	if len(result[0].MatchedKeywords) != 2 {
		t.Errorf("expected both keywords matched, got %v", result[0].MatchedKeywords)
	}
}

func TestRecommendationService_EmptyKeywordsScore50(t *testing.T) {
	_, svc, _ := setupTestFacultyService()

	result, err := svc.Recommend(context.Background(), &dto.RecommendationRequest{ProjectKeywords: strPtr(" , ")})
	if err != nil {
		t.Fatalf("Recommend should succeed: %v", err)
	}
	for _, r := range result {
		if r.MatchScore != 50 {
			t.Errorf("%s: expected 50, got %d", r.UserID, r.MatchScore)
		}
	}
}

func TestRecommendationService_ProjectKeywordsAndLimit(t *testing.T) {
	_, svc, mocks := setupTestFacultyService()
	mocks.addProject("project-a", "student-1", "Smart home", model.ProjectPending, "IoT")

	result, err := svc.Recommend(context.Background(), &dto.RecommendationRequest{ProjectID: "project-a", Limit: 1})
	if err != nil {
		t.Fatalf("Recommend should succeed: %v", err)
	}
	if len(result) != 1 || result[0].UserID != "faculty-2" {
		t.Errorf("expected faculty-2 only, got %+v", result)
	}

	_, err = svc.Recommend(context.Background(), &dto.RecommendationRequest{ProjectID: "missing"})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}
