package service

import (
	"context"

	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/internal/scoring"
)

// RecommendationService ranks available faculty for a set of project keywords.
type RecommendationService interface {
	// Recommend uses projectKeywords when given, otherwise the keywords of
	// projectId, otherwise an empty list (every faculty member scores 50).
	Recommend(ctx context.Context, req *dto.RecommendationRequest) ([]dto.RecommendationResponse, error)
	// RankForKeywords is Recommend for an already parsed keyword list.
	RankForKeywords(ctx context.Context, keywords []string, limit int) ([]dto.RecommendationResponse, error)
}

type recommendationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(repo *repository.Repository, logger *zap.Logger) RecommendationService {
	return &recommendationService{repo: repo, logger: logger}
}

func (s *recommendationService) Recommend(ctx context.Context, req *dto.RecommendationRequest) ([]dto.RecommendationResponse, error) {
	var keywords []string
	switch {
	case req.ProjectKeywords != nil:
		keywords = scoring.ParseKeywords(*req.ProjectKeywords)
	case req.ProjectID != "":
		project, err := s.repo.Project.GetByID(ctx, req.ProjectID)
		if err != nil {
			return nil, translateProjectErr(err)
		}
		keywords = project.Keywords
	}

	return s.RankForKeywords(ctx, keywords, req.Limit)
}

func (s *recommendationService) RankForKeywords(ctx context.Context, keywords []string, limit int) ([]dto.RecommendationResponse, error) {
	profiles, err := s.repo.Faculty.ListAvailable(ctx)
	if err != nil {
		s.logger.Error("list available faculty failed", zap.Error(err))
		return nil, err
	}

	byUser := make(map[string]*model.FacultyProfile, len(profiles))
	candidates := make([]scoring.Candidate, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		byUser[p.UserID] = p
		candidates = append(candidates, scoring.Candidate{
			UserID:      p.UserID,
			SuccessRate: p.SuccessRate,
			Profile:     profileOf(p),
		})
	}

	ranked := scoring.Rank(candidates, keywords)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]dto.RecommendationResponse, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, dto.RecommendationResponse{
			FacultyProfileResponse: *toFacultyProfileResponse(byUser[r.UserID]),
			MatchScore:             r.Score,
			MatchedKeywords:        r.MatchedKeywords,
		})
	}
	return result, nil
}
