package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// FacultyHandler faculty profiles
type FacultyHandler struct {
	facultySvc service.FacultyService
}

// NewFacultyHandler creates a FacultyHandler.
func NewFacultyHandler(facultySvc service.FacultyService) *FacultyHandler {
	return &FacultyHandler{facultySvc: facultySvc}
}

// ListProfiles
// GET /api/v1/faculty-profiles?available=
func (h *FacultyHandler) ListProfiles(c *gin.Context) {
	var req dto.FacultyProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	profiles, err := h.facultySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleFacultyError(c, err)
		return
	}

	response.OK(c, gin.H{"list": profiles})
}

// GetProfile
// GET /api/v1/faculty-profiles/:userId
func (h *FacultyHandler) GetProfile(c *gin.Context) {
	profile, err := h.facultySvc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.handleFacultyError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateProfile self or committee
// PUT /api/v1/faculty-profiles/:userId
func (h *FacultyHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateFacultyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	profile, err := h.facultySvc.Update(c.Request.Context(), c.Param("userId"), &req, caller)
	if err != nil {
		h.handleFacultyError(c, err)
		return
	}

	response.OK(c, profile)
}

func (h *FacultyHandler) handleFacultyError(c *gin.Context, err error) {
	if isVersionConflict(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 13001, "faculty profile not found")
	case errors.Is(err, service.ErrUserNotFaculty):
		response.BadRequest(c, 13002, "user is not a faculty member")
	case errors.Is(err, service.ErrFacultyForbidden):
		response.Forbidden(c, 13003, "cannot edit another faculty member's profile")
	case errors.Is(err, service.ErrMaxBelowCurrent):
		response.BadRequest(c, 13004, "max_students is below the current number of students")
	default:
		response.InternalError(c)
	}
}
