package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// BudgetHandler handles budget entry requests.
type BudgetHandler struct {
	*Base
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(planner *service.PlannerService, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{Base: NewBase(planner, logger)}
}

// List handles GET /api/budget.
func (h *BudgetHandler) List(c *gin.Context) {
	period, ok := h.periodFilter(c)
	if !ok {
		return
	}
	filter := storage.BudgetFilter{
		Period:      period,
		ExpenseType: planning.ExpenseType(c.Query("expense_type")),
	}

	entries, err := h.planner.ListBudgets(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	if entries == nil {
		entries = []planning.BudgetEntry{}
	}
	c.JSON(http.StatusOK, dto.BudgetListResponse{
		Entries: entries,
		Total:   total.String(),
		Count:   len(entries),
	})
}

// Get handles GET /api/budget/:id.
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "budget")
	if !ok {
		return
	}
	entry, err := h.planner.GetBudget(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Create handles POST /api/budget.
func (h *BudgetHandler) Create(c *gin.Context) {
	var req dto.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.planner.CreateBudget(c.Request.Context(), req.Entry())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Update handles PUT /api/budget/:id. The body replaces the entry.
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "budget")
	if !ok {
		return
	}
	var req dto.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.planner.UpdateBudget(c.Request.Context(), id, req.Entry())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/budget/:id.
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "budget")
	if !ok {
		return
	}
	runs, err := h.planner.DeleteBudget(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{ID: id, Deleted: true, Recomputes: runs})
}
