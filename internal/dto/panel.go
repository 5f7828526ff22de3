package dto

// ── panel requests ──

// PanelConstraintsRequest generation parameters; zero means default
type PanelConstraintsRequest struct {
	ProjectsPerPanel   int    `json:"projectsPerPanel"   binding:"omitempty,min=1,max=50"`
	EvaluatorsPerPanel int    `json:"evaluatorsPerPanel" binding:"omitempty,min=1,max=20"`
	Strategy           string `json:"strategy"           binding:"omitempty,oneof=random expertise"`
}

// GeneratePanelsRequest POST /panels/generate
type GeneratePanelsRequest struct {
	Constraints PanelConstraintsRequest `json:"constraints"`
}

// UpdatePanelRequest draft-only edit; nil fields are left unchanged
type UpdatePanelRequest struct {
	Name         *string  `json:"name"          binding:"omitempty,notblank,max=100"`
	ProjectIDs   []string `json:"project_ids"   binding:"omitempty,min=1,dive,uuid"`
	EvaluatorIDs []string `json:"evaluator_ids" binding:"omitempty,min=1,dive,uuid"`
	Version      int      `json:"version"       binding:"omitempty,min=1"`
}

// SchedulePanelRequest draft → scheduled
type SchedulePanelRequest struct {
	ScheduledDate string  `json:"scheduled_date" binding:"required"` // RFC 3339
	Room          *string `json:"room"           binding:"omitempty,max=100"`
}

// PanelListRequest list filters
type PanelListRequest struct {
	Status       string `form:"status"        binding:"omitempty,oneof=draft scheduled completed"`
	GenerationID string `form:"generation_id" binding:"omitempty,uuid"`
}

// ── panel responses ──

// PanelConstraintsResponse constraints a panel was generated with
type PanelConstraintsResponse struct {
	ProjectsPerPanel   int    `json:"projectsPerPanel"`
	EvaluatorsPerPanel int    `json:"evaluatorsPerPanel"`
	Strategy           string `json:"strategy"`
}

// PanelResponse panel detail
type PanelResponse struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	ProjectIDs        []string                 `json:"project_ids"`
	EvaluatorIDs      []string                 `json:"evaluator_ids"`
	Status            string                   `json:"status"`
	OptimizationScore int                      `json:"optimization_score"`
	ScheduledDate     *string                  `json:"scheduled_date,omitempty"`
	Room              *string                  `json:"room,omitempty"`
	Constraints       PanelConstraintsResponse `json:"constraints"`
	GenerationID      string                   `json:"generation_id"`
	Version           int                      `json:"version"`
	CreatedAt         string                   `json:"created_at"`
}

// GeneratePanelsSummary totals of one generate call
type GeneratePanelsSummary struct {
	GenerationID        string                   `json:"generation_id"`
	PanelsCreated       int                      `json:"panels_created"`
	ProjectsAssigned    int                      `json:"projects_assigned"`
	EvaluatorsUsed      int                      `json:"evaluators_used"`
	AverageOptimization int                      `json:"average_optimization_score"`
	SupervisorConflicts int                      `json:"supervisor_conflicts"`
	Constraints         PanelConstraintsResponse `json:"constraints"`
	EligibleProjects    int                      `json:"eligible_projects"`
	EligibleFaculty     int                      `json:"eligible_faculty"`
}

// GeneratePanelsResponse POST /panels/generate
type GeneratePanelsResponse struct {
	Panels  []PanelResponse       `json:"panels"`
	Summary GeneratePanelsSummary `json:"summary"`
}
