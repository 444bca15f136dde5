package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"santiye/internal/domain/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetProjectReport handles GET /reports/projects/:id.
func (h *ReportsHandler) GetProjectReport(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	report, err := h.service.GetProjectReport(c.Request.Context(), projectID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// ExportProjectReport handles GET /reports/projects/:id/excel.
func (h *ReportsHandler) ExportProjectReport(c *gin.Context) {
	projectID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	data, fileName, err := h.service.ExportProjectReport(c.Request.Context(), projectID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportStockReport handles GET /reports/stock/excel.
func (h *ReportsHandler) ExportStockReport(c *gin.Context) {
	data, fileName, err := h.service.ExportStockReport(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, xlsxContentType, data)
}
