package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// RecomputeHandler handles manual recomputes and their run history.
type RecomputeHandler struct {
	*Base
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(planner *service.PlannerService, logger *slog.Logger) *RecomputeHandler {
	return &RecomputeHandler{Base: NewBase(planner, logger)}
}

// Recompute handles POST /api/recompute.
func (h *RecomputeHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	run, err := h.planner.RecomputePeriod(c.Request.Context(),
		planning.Period{Month: req.Month, Year: req.Year}, service.TriggerManual)
	h.writeRun(c, run, err)
}

// List handles GET /api/recompute/runs.
func (h *RecomputeHandler) List(c *gin.Context) {
	params := dto.DefaultRunListParams()
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindError(c, err)
		return
	}
	runs, err := h.planner.ListRecomputeRuns(c.Request.Context(), params.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if runs == nil {
		runs = []storage.RecomputeRun{}
	}
	c.JSON(http.StatusOK, dto.RunListResponse{Runs: runs, Count: len(runs)})
}

// Get handles GET /api/recompute/runs/:id.
func (h *RecomputeHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "run")
	if !ok {
		return
	}
	run, err := h.planner.GetRecomputeRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// Retry handles POST /api/recompute/runs/:id/retry.
func (h *RecomputeHandler) Retry(c *gin.Context) {
	id, ok := ParseID(c, "run")
	if !ok {
		return
	}
	run, err := h.planner.RetryRecompute(c.Request.Context(), id)
	h.writeRun(c, run, err)
}

// writeRun answers with the run even when it failed, so the caller can
// retry it: 409 when the period lock was busy, 500 for other failures.
func (h *RecomputeHandler) writeRun(c *gin.Context, run *storage.RecomputeRun, err error) {
	if run == nil {
		h.HandleError(c, err)
		return
	}
	status := http.StatusOK
	switch {
	case errors.Is(err, planning.ErrLocked):
		status = http.StatusConflict
	case err != nil:
		h.logger.Error("recompute failed", "run_id", run.ID, "error", err)
		status = http.StatusInternalServerError
	}
	c.JSON(status, run)
}
