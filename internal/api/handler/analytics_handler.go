package handler

import (
	"github.com/gin-gonic/gin"

	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// AnalyticsHandler committee dashboard
type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Overview
// GET /api/v1/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	result, err := h.analyticsSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
