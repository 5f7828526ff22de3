package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

// PanelHandler evaluation panels
type PanelHandler struct {
	panelSvc service.PanelService
}

// NewPanelHandler creates a PanelHandler.
func NewPanelHandler(panelSvc service.PanelService) *PanelHandler {
	return &PanelHandler{panelSvc: panelSvc}
}

// GeneratePanels partitions approved projects into new draft panels.
// POST /api/v1/panels/generate
func (h *PanelHandler) GeneratePanels(c *gin.Context) {
	var req dto.GeneratePanelsRequest
	// an empty body means default constraints; a chunked empty body ends in io.EOF
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			bindFailed(c, err)
			return
		}
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.panelSvc.Generate(c.Request.Context(), &req, caller)
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.Created(c, result)
}

// ListPanels
// GET /api/v1/panels?status=&generation_id=
func (h *PanelHandler) ListPanels(c *gin.Context) {
	var req dto.PanelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	panels, err := h.panelSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, gin.H{"list": panels})
}

// GetPanel
// GET /api/v1/panels/:id
func (h *PanelHandler) GetPanel(c *gin.Context) {
	panel, err := h.panelSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, panel)
}

// UpdatePanel manual adjustment of a draft panel
// PUT /api/v1/panels/:id
func (h *PanelHandler) UpdatePanel(c *gin.Context) {
	var req dto.UpdatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	panel, err := h.panelSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, panel)
}

// SchedulePanel
// POST /api/v1/panels/:id/schedule
func (h *PanelHandler) SchedulePanel(c *gin.Context) {
	var req dto.SchedulePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	panel, err := h.panelSvc.Schedule(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, panel)
}

// CompletePanel
// POST /api/v1/panels/:id/complete
func (h *PanelHandler) CompletePanel(c *gin.Context) {
	panel, err := h.panelSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, panel)
}

// DeletePanel
// DELETE /api/v1/panels/:id
func (h *PanelHandler) DeletePanel(c *gin.Context) {
	if err := h.panelSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handlePanelError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *PanelHandler) handlePanelError(c *gin.Context, err error) {
	if isVersionConflict(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrPanelNotFound):
		response.NotFound(c, 15001, "panel not found")
	case errors.Is(err, service.ErrPanelInvalidTransition):
		response.Conflict(c, 15002, "invalid panel status transition")
	case errors.Is(err, service.ErrPanelNotEditable):
		response.Conflict(c, 15003, "only draft panels can be edited")
	case errors.Is(err, service.ErrPanelNotDeletable):
		response.Conflict(c, 15004, "completed panels cannot be deleted")
	case errors.Is(err, service.ErrPanelGenerationBusy):
		response.Conflict(c, 15005, "panel generation is already running")
	case errors.Is(err, service.ErrPanelInvalidSchedule):
		response.BadRequest(c, 15006, "scheduled_date must be an RFC 3339 timestamp")
	case errors.Is(err, service.ErrPanelUnknownProject):
		response.BadRequest(c, 15007, "panel references an unknown project")
	case errors.Is(err, service.ErrPanelUnknownEvaluator):
		response.BadRequest(c, 15008, "panel references an unknown evaluator")
	case errors.Is(err, service.ErrPanelInvalidConstraints):
		response.BadRequest(c, 15009, err.Error())
	default:
		response.InternalError(c)
	}
}
