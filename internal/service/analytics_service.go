package service

import (
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// AnalyticsService committee dashboard figures
type AnalyticsService interface {
	Overview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error)
}

type analyticsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo *repository.Repository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

// Overview runs the independent counts concurrently. Faculty are counted by
// profile. The acceptability average covers scored projects only and is 0
// when none are scored.
func (s *analyticsService) Overview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error) {
	var (
		out      dto.AnalyticsOverviewResponse
		byStatus map[string]int64
		avg      float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = s.repo.Project.CountByStatus(gctx)
		return
	})
	g.Go(func() (err error) {
		out.TotalStudents, err = s.repo.User.CountByRole(gctx, model.RoleStudent)
		return
	})
	g.Go(func() (err error) {
		out.TotalFaculty, err = s.repo.Faculty.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		out.AvailableFaculty, err = s.repo.Faculty.CountAvailable(gctx)
		return
	})
	g.Go(func() (err error) {
		out.TotalPanels, err = s.repo.Panel.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		out.PendingRequests, err = s.repo.Request.CountByStatus(gctx, model.RequestPending)
		return
	})
	g.Go(func() (err error) {
		avg, out.ScoredProjects, err = s.repo.Project.AverageAcceptability(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("analytics overview failed", zap.Error(err))
		return nil, err
	}

	out.ProjectsByStatus = make(map[string]int64, len(model.ProjectStatuses))
	for _, st := range model.ProjectStatuses {
		out.ProjectsByStatus[st] = byStatus[st]
	}
	for _, n := range byStatus {
		out.TotalProjects += n
	}
	out.AvgAcceptabilityScore = math.Round(avg*10) / 10

	return &out, nil
}
