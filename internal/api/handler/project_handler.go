package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// ProjectHandler project proposals
type ProjectHandler struct {
	projectSvc service.ProjectService
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// CreateProject submits a proposal; the response carries the duplicate
// check and acceptability breakdown.
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.Created(c, project)
}

// CheckProject previews both scores without saving.
// POST /api/v1/projects/check
func (h *ProjectHandler) CheckProject(c *gin.Context) {
	var req dto.CheckProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.projectSvc.Check(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, result)
}

// ListProjects
// GET /api/v1/projects?status=&student_id=&supervisor_id=&page=&page_size=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var req dto.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	projects, total, err := h.projectSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OKPage(c, projects, total, req.GetPage(), req.GetPageSize())
}

// GetProject
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// UpdateProject owner resubmission
// PUT /api/v1/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// UpdateProjectStatus committee review decision
// PUT /api/v1/projects/:id/status
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	var req dto.UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// DeleteProject
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.projectSvc.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	if isVersionConflict(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 12001, "project not found")
	case errors.Is(err, service.ErrProjectForbidden):
		response.Forbidden(c, 12002, "project belongs to another student")
	case errors.Is(err, service.ErrProjectNotEditable):
		response.Conflict(c, 12003, "project can no longer be edited")
	case errors.Is(err, service.ErrProjectStatusInvalid):
		response.BadRequest(c, 12004, "invalid project status")
	case errors.Is(err, service.ErrProjectStatusSame):
		response.BadRequest(c, 12005, "project already has this status")
	default:
		response.InternalError(c)
	}
}
