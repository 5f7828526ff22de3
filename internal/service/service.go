package service

import (
	"time"

	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/repository"
	"fyp-portal/pkg/jwt"
)

// Caller the authenticated user on whose behalf a service call runs.
type Caller struct {
	UserID string
	Role   string
}

// KeyStore the shared key-value features the services use: the panel
// generation lock and the token blacklist. pkg/redis.Client implements it.
type KeyStore interface {
	Locker
	Blacklist
}

// Service aggregates every service.
type Service struct {
	Auth           AuthService
	User           UserService
	Project        ProjectService
	Faculty        FacultyService
	Recommendation RecommendationService
	Request        SupervisorRequestService
	Panel          PanelService
	Export         ExportService
	Analytics      AnalyticsService
	Notification   NotificationService
}

// NewService wires the services. store may be nil when Redis is not configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	store KeyStore,
	logger *zap.Logger,
) *Service {
	var (
		locker    Locker
		blacklist Blacklist
	)
	if store != nil {
		locker, blacklist = store, store
	}

	return &Service{
		Auth:           NewAuthService(repo, jwtMgr, blacklist, logger),
		User:           NewUserService(repo, logger),
		Project:        NewProjectService(repo, cfg.Scoring.DuplicateThreshold, logger),
		Faculty:        NewFacultyService(repo, logger),
		Recommendation: NewRecommendationService(repo, logger),
		Request:        NewSupervisorRequestService(repo, logger),
		Panel:          NewPanelService(repo, locker, cfg.Panel, logger),
		Export:         NewExportService(repo, logger),
		Analytics:      NewAnalyticsService(repo, logger),
		Notification:   NewNotificationService(repo, logger),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
