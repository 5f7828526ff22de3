package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// SupervisorRequestHandler supervision requests
type SupervisorRequestHandler struct {
	requestSvc service.SupervisorRequestService
}

// NewSupervisorRequestHandler creates a SupervisorRequestHandler.
func NewSupervisorRequestHandler(requestSvc service.SupervisorRequestService) *SupervisorRequestHandler {
	return &SupervisorRequestHandler{requestSvc: requestSvc}
}

// CreateRequest
// POST /api/v1/supervisor-requests
func (h *SupervisorRequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// ListRequests
// GET /api/v1/supervisor-requests?student_id=|faculty_id=&status=
func (h *SupervisorRequestHandler) ListRequests(c *gin.Context) {
	var req dto.SupervisorRequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// RespondRequest faculty accepts or rejects
// PUT /api/v1/supervisor-requests/:id/respond
func (h *SupervisorRequestHandler) RespondRequest(c *gin.Context) {
	var req dto.RespondSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Respond(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *SupervisorRequestHandler) handleRequestError(c *gin.Context, err error) {
	if isVersionConflict(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 14001, "supervisor request not found")
	case errors.Is(err, service.ErrRequestForbidden):
		response.Forbidden(c, 14002, "not your supervisor request")
	case errors.Is(err, service.ErrRequestAlreadyResponded):
		response.Conflict(c, 14003, "supervisor request was already answered")
	case errors.Is(err, service.ErrRequestDuplicate):
		response.Conflict(c, 14004, "a pending request to this faculty member already exists")
	case errors.Is(err, service.ErrRequestFilterRequired):
		response.BadRequest(c, 14005, "student_id or faculty_id is required")
	case errors.Is(err, service.ErrProjectHasSupervisor):
		response.Conflict(c, 14006, "project already has a supervisor")
	case errors.Is(err, service.ErrFacultyAtCapacity):
		response.Conflict(c, 14007, "faculty member has no remaining capacity")
	case errors.Is(err, service.ErrFacultyUnavailable):
		response.BadRequest(c, 14008, "faculty member is not accepting students")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 12001, "project not found")
	case errors.Is(err, service.ErrProjectForbidden):
		response.Forbidden(c, 12002, "project belongs to another student")
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 13001, "faculty profile not found")
	default:
		response.InternalError(c)
	}
}
