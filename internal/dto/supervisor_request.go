package dto

// CreateSupervisorRequest student asks a faculty member to supervise a project
type CreateSupervisorRequest struct {
	FacultyID string `json:"faculty_id" binding:"required,uuid"`
	ProjectID string `json:"project_id" binding:"required,uuid"`
	Message   string `json:"message"    binding:"omitempty,max=2000"`
}

// RespondSupervisorRequest faculty decision
type RespondSupervisorRequest struct {
	Status  string `json:"status"  binding:"required,oneof=accepted rejected"`
	Version int    `json:"version" binding:"omitempty,min=1"`
}

// SupervisorRequestListRequest exactly one of the ids is expected
type SupervisorRequestListRequest struct {
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	FacultyID string `form:"faculty_id" binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=pending accepted rejected"`
}

// SupervisorRequestResponse request detail
type SupervisorRequestResponse struct {
	ID           string     `json:"id"`
	StudentID    string     `json:"student_id"`
	Student      *UserBrief `json:"student,omitempty"`
	FacultyID    string     `json:"faculty_id"`
	Faculty      *UserBrief `json:"faculty,omitempty"`
	ProjectID    string     `json:"project_id"`
	ProjectTitle string     `json:"project_title,omitempty"`
	Status       string     `json:"status"`
	Message      string     `json:"message,omitempty"`
	MatchScore   int        `json:"match_score"`
	RespondedAt  *string    `json:"responded_at,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    string     `json:"created_at"`
}
