package dto

import "fyp-portal/internal/scoring"

// ── project requests ──

// CreateProjectRequest student proposal submission
type CreateProjectRequest struct {
	Title       string   `json:"title"       binding:"required,notblank,max=255"`
	Description string   `json:"description" binding:"required,notblank,max=10000"`
	Domain      string   `json:"domain"      binding:"omitempty,max=100"`
	Keywords    []string `json:"keywords"    binding:"omitempty,max=20,dive,max=64"`
}

// UpdateProjectRequest resubmission; nil fields are left unchanged
type UpdateProjectRequest struct {
	Title       *string  `json:"title"       binding:"omitempty,notblank,max=255"`
	Description *string  `json:"description" binding:"omitempty,notblank,max=10000"`
	Domain      *string  `json:"domain"      binding:"omitempty,max=100"`
	Keywords    []string `json:"keywords"    binding:"omitempty,max=20,dive,max=64"`
}

// UpdateProjectStatusRequest committee status change
type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft pending approved rejected in-progress completed"`
}

// CheckProjectRequest preview scoring without saving
type CheckProjectRequest struct {
	ProjectID   string   `json:"project_id"  binding:"omitempty,uuid"`
	Title       string   `json:"title"       binding:"required,notblank,max=255"`
	Description string   `json:"description" binding:"omitempty,max=10000"`
	Keywords    []string `json:"keywords"    binding:"omitempty,max=20,dive,max=64"`
}

// ProjectListRequest list filters
type ProjectListRequest struct {
	Status       string `form:"status"        binding:"omitempty,oneof=draft pending approved rejected in-progress completed"`
	StudentID    string `form:"student_id"    binding:"omitempty,uuid"`
	SupervisorID string `form:"supervisor_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// ── project responses ──

// SimilarProjectResponse one duplicate hit
type SimilarProjectResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// DuplicateCheckResponse duplicate check summary
type DuplicateCheckResponse struct {
	HasDuplicates   bool                     `json:"has_duplicates"`
	SimilarProjects []SimilarProjectResponse `json:"similar_projects"`
}

// ProjectResponse project detail
type ProjectResponse struct {
	ID                   string                       `json:"id"`
	Title                string                       `json:"title"`
	Description          string                       `json:"description"`
	Domain               string                       `json:"domain,omitempty"`
	Keywords             []string                     `json:"keywords"`
	Status               string                       `json:"status"`
	StudentID            string                       `json:"student_id"`
	Student              *UserBrief                   `json:"student,omitempty"`
	SupervisorID         *string                      `json:"supervisor_id,omitempty"`
	Supervisor           *UserBrief                   `json:"supervisor,omitempty"`
	AcceptabilityScore   *int                         `json:"acceptability_score,omitempty"`
	Acceptability        *scoring.AcceptabilityReport `json:"acceptability,omitempty"`
	DuplicateCheckResult *DuplicateCheckResponse      `json:"duplicate_check_result,omitempty"`
	Version              int                          `json:"version"`
	SubmittedAt          string                       `json:"submitted_at"`
	UpdatedAt            string                       `json:"updated_at"`
}

// CheckProjectResponse POST /projects/check
type CheckProjectResponse struct {
	DuplicateCheckResult DuplicateCheckResponse      `json:"duplicate_check_result"`
	Acceptability        scoring.AcceptabilityReport `json:"acceptability"`
}
