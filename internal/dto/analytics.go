package dto

// AnalyticsOverviewResponse GET /analytics/overview
type AnalyticsOverviewResponse struct {
	TotalProjects         int64            `json:"total_projects"`
	TotalStudents         int64            `json:"total_students"`
	TotalFaculty          int64            `json:"total_faculty"`
	AvailableFaculty      int64            `json:"available_faculty"`
	TotalPanels           int64            `json:"total_panels"`
	PendingRequests       int64            `json:"pending_requests"`
	ProjectsByStatus      map[string]int64 `json:"projects_by_status"`
	AvgAcceptabilityScore float64          `json:"avg_acceptability_score"`
	ScoredProjects        int64            `json:"scored_projects"`
}
