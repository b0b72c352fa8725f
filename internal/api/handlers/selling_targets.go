package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// SellingTargetHandler handles daily target requests.
type SellingTargetHandler struct {
	*Base
}

// NewSellingTargetHandler creates a new selling target handler.
func NewSellingTargetHandler(planner *service.PlannerService, logger *slog.Logger) *SellingTargetHandler {
	return &SellingTargetHandler{Base: NewBase(planner, logger)}
}

// List handles GET /api/selling-targets.
func (h *SellingTargetHandler) List(c *gin.Context) {
	var q dto.SellingTargetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	var period *planning.Period
	if q.IsSet() {
		p, err := q.Period()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		period = &p
	}

	days, err := h.planner.ListSellingTargets(c.Request.Context(), q.AdProductEntryID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if days == nil {
		days = []planning.SellingTargetEntry{}
	}
	c.JSON(http.StatusOK, dto.SellingTargetListResponse{
		AdProductEntryID: q.AdProductEntryID,
		Days:             days,
		Count:            len(days),
	})
}

// Record handles POST /api/selling-targets. It stores the day's sales and
// returns the redistributed month.
func (h *SellingTargetHandler) Record(c *gin.Context) {
	var req dto.SellingTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	date, err := planning.ParseDate(req.Date)
	if err != nil {
		h.HandleError(c, planning.NewValidationError("date", err.Error()))
		return
	}

	plan, err := h.planner.RecordSales(c.Request.Context(), service.RecordSalesRequest{
		AdProductEntryID: req.AdProductEntryID,
		Date:             date,
		SoldUnits:        req.SoldUnits,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
