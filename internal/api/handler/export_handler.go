package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/service"
	"fyp-portal/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler panel downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPanels panel roster workbook
// GET /api/v1/panels/export.xlsx?status=&generation_id=
func (h *ExportHandler) ExportPanels(c *gin.Context) {
	var req dto.PanelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportPanels(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar scheduled panels as iCalendar events
// GET /api/v1/panels/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoPanels):
		response.NotFound(c, 16001, "no panels to export")
	default:
		response.InternalError(c)
	}
}
