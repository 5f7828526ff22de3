package handler

import "fyp-portal/internal/service"

// Handler aggregates every handler.
type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	Project        *ProjectHandler
	Faculty        *FacultyHandler
	Recommendation *RecommendationHandler
	Request        *SupervisorRequestHandler
	Panel          *PanelHandler
	Export         *ExportHandler
	Analytics      *AnalyticsHandler
	Notification   *NotificationHandler
	Health         *HealthHandler
}

// NewHandler builds every handler. pinger backs the health check and may be nil.
func NewHandler(svc *service.Service, pinger Pinger) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth, svc.User),
		User:           NewUserHandler(svc.User),
		Project:        NewProjectHandler(svc.Project),
		Faculty:        NewFacultyHandler(svc.Faculty),
		Recommendation: NewRecommendationHandler(svc.Recommendation),
		Request:        NewSupervisorRequestHandler(svc.Request),
		Panel:          NewPanelHandler(svc.Panel),
		Export:         NewExportHandler(svc.Export),
		Analytics:      NewAnalyticsHandler(svc.Analytics),
		Notification:   NewNotificationHandler(svc.Notification),
		Health:         NewHealthHandler(pinger),
	}
}
