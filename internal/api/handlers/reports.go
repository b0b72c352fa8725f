package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves period summaries.
type ReportHandler struct {
	*Base
}

// NewReportHandler creates a new report handler.
func NewReportHandler(planner *service.PlannerService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{Base: NewBase(planner, logger)}
}

// Summary handles GET /api/summary.
func (h *ReportHandler) Summary(c *gin.Context) {
	period, ok := h.requiredPeriod(c)
	if !ok {
		return
	}
	summary, err := h.planner.PeriodSummary(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export handles GET /api/reports/plan.xlsx.
func (h *ReportHandler) Export(c *gin.Context) {
	period, ok := h.requiredPeriod(c)
	if !ok {
		return
	}
	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.planner.ExportPeriodReport(c.Request.Context(), period, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("growth-plan-%s.xlsx", period.Key())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
