package dto

// ── faculty profiles ──

// FacultyProfileListRequest list filter
type FacultyProfileListRequest struct {
	Available *bool `form:"available"`
}

// UpdateFacultyProfileRequest nil fields are left unchanged
type UpdateFacultyProfileRequest struct {
	Expertise         []string `json:"expertise"          binding:"omitempty,max=30,dive,max=64"`
	ResearchInterests []string `json:"research_interests" binding:"omitempty,max=30,dive,max=64"`
	MaxStudents       *int     `json:"max_students"       binding:"omitempty,min=0,max=50"`
	Available         *bool    `json:"available"`
	Bio               *string  `json:"bio"                binding:"omitempty,max=2000"`
	SuccessRate       *int     `json:"success_rate"       binding:"omitempty,min=0,max=100"`
}

// FacultyProfileResponse faculty profile
type FacultyProfileResponse struct {
	UserID            string     `json:"user_id"`
	User              *UserBrief `json:"user,omitempty"`
	Expertise         []string   `json:"expertise"`
	ResearchInterests []string   `json:"research_interests"`
	MaxStudents       int        `json:"max_students"`
	CurrentStudents   int        `json:"current_students"`
	Available         bool       `json:"available"`
	Bio               string     `json:"bio,omitempty"`
	SuccessRate       int        `json:"success_rate"`
	Version           int        `json:"version"`
}

// ── recommendations ──

// RecommendationRequest GET /recommendations
type RecommendationRequest struct {
	ProjectKeywords *string `form:"projectKeywords"`
	ProjectID       string  `form:"projectId" binding:"omitempty,uuid"`
	Limit           int     `form:"limit"     binding:"omitempty,min=1,max=100"`
}

// RecommendationResponse one ranked faculty member
type RecommendationResponse struct {
	FacultyProfileResponse
	MatchScore      int      `json:"match_score"`
	MatchedKeywords []string `json:"matched_keywords"`
}
