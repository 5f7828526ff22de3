package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/api/handler"
	"fyp-portal/internal/api/middleware"
	"fyp-portal/internal/model"
	"fyp-portal/pkg/jwt"
)

// Store is what the middleware needs from Redis. A nil Store disables the
// token blacklist and rate limiting.
type Store interface {
	middleware.BlacklistChecker
	middleware.RateLimiter
}

// Setup builds the gin engine with every route.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, store Store, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	var (
		blacklist middleware.BlacklistChecker
		limiter   middleware.RateLimiter
	)
	if store != nil {
		blacklist, limiter = store, store
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.GET("/health", h.Health.Health)

	const (
		student   = model.RoleStudent
		faculty   = model.RoleFaculty
		committee = model.RoleCommittee
	)
	limited := middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/me", h.Auth.GetCurrentUser)
			auth.POST("/logout", h.Auth.Logout)
		}

		users := v1.Group("/users", middleware.RoleAuth(committee))
		{
			users.GET("", h.User.ListUsers)
			users.GET("/:id", h.User.GetUser)
		}

		projects := v1.Group("/projects")
		{
			projects.POST("", middleware.RoleAuth(student), limited, h.Project.CreateProject)
			projects.POST("/check", middleware.RoleAuth(student), limited, h.Project.CheckProject)
			projects.GET("", h.Project.ListProjects)
			projects.GET("/:id", h.Project.GetProject)
			projects.PUT("/:id", middleware.RoleAuth(student), limited, h.Project.UpdateProject)
			projects.PUT("/:id/status", middleware.RoleAuth(committee), h.Project.UpdateProjectStatus)
			projects.DELETE("/:id", middleware.RoleAuth(student, committee), h.Project.DeleteProject) // owner checked in service
		}

		profiles := v1.Group("/faculty-profiles")
		{
			profiles.GET("", h.Faculty.ListProfiles)
			profiles.GET("/:userId", h.Faculty.GetProfile)
			profiles.PUT("/:userId", middleware.RoleAuth(faculty, committee), h.Faculty.UpdateProfile)
		}

		v1.GET("/recommendations", h.Recommendation.Recommend)

		requests := v1.Group("/supervisor-requests")
		{
			requests.POST("", middleware.RoleAuth(student), limited, h.Request.CreateRequest)
			requests.GET("", h.Request.ListRequests)
			requests.PUT("/:id/respond", middleware.RoleAuth(faculty), h.Request.RespondRequest)
		}

		panels := v1.Group("/panels")
		{
			panels.POST("/generate", middleware.RoleAuth(committee), limited, h.Panel.GeneratePanels)
			panels.GET("", middleware.RoleAuth(faculty, committee), h.Panel.ListPanels)
			panels.GET("/export.xlsx", middleware.RoleAuth(committee), h.Export.ExportPanels)
			panels.GET("/calendar.ics", middleware.RoleAuth(faculty, committee), h.Export.ExportCalendar)
			panels.GET("/:id", middleware.RoleAuth(faculty, committee), h.Panel.GetPanel)
			panels.PUT("/:id", middleware.RoleAuth(committee), h.Panel.UpdatePanel)
			panels.POST("/:id/schedule", middleware.RoleAuth(committee), h.Panel.SchedulePanel)
			panels.POST("/:id/complete", middleware.RoleAuth(committee), h.Panel.CompletePanel)
			panels.DELETE("/:id", middleware.RoleAuth(committee), h.Panel.DeletePanel)
		}

		v1.GET("/analytics/overview", middleware.RoleAuth(committee), h.Analytics.Overview)

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.ListNotifications)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}
	}

	return r, nil
}
