package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// RecommendationHandler supervisor recommendations
type RecommendationHandler struct {
	recommendationSvc service.RecommendationService
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(recommendationSvc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationSvc: recommendationSvc}
}

// Recommend ranks available faculty by match score.
// GET /api/v1/recommendations?projectKeywords=a,b&projectId=&limit=
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req dto.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.recommendationSvc.Recommend(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			response.NotFound(c, 12001, "project not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}
