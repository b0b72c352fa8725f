package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// Base provides shared functionality for all handlers.
type Base struct {
	planner *service.PlannerService
	logger  *slog.Logger
}

// NewBase creates a new base handler over the planner.
func NewBase(planner *service.PlannerService, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{planner: planner, logger: logger}
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(c *gin.Context, status int, err dto.APIError) {
	c.AbortWithStatusJSON(status, err)
}

// HandleError maps a planner error onto the API error envelope.
func (b *Base) HandleError(c *gin.Context, err error) {
	var verr *planning.ValidationError
	switch {
	case errors.As(err, &verr):
		b.WriteError(c, http.StatusBadRequest, dto.ValidationError(verr.Field, verr.Error()))
	case errors.Is(err, planning.ErrValidation):
		b.WriteError(c, http.StatusBadRequest, dto.ValidationError("", err.Error()))
	case errors.Is(err, planning.ErrNotFound):
		b.WriteError(c, http.StatusNotFound, dto.NewAPIError(dto.ErrCodeNotFound, err.Error()))
	case errors.Is(err, planning.ErrLocked):
		b.WriteError(c, http.StatusConflict, dto.ConflictError(err.Error()))
	default:
		b.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		b.WriteError(c, http.StatusInternalServerError, dto.InternalError())
	}
}

// BindError reports a malformed body or query.
func (b *Base) BindError(c *gin.Context, err error) {
	b.WriteError(c, http.StatusBadRequest, dto.BadRequestError(err.Error()))
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context, resource string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestError("invalid "+resource+" ID"))
		return 0, false
	}
	return id, true
}

// periodFilter binds an optional month/year query. Both halves must be
// given together.
func (b *Base) periodFilter(c *gin.Context) (*planning.Period, bool) {
	var q dto.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		b.BindError(c, err)
		return nil, false
	}
	if !q.IsSet() {
		return nil, true
	}
	p, err := q.Period()
	if err != nil {
		b.HandleError(c, err)
		return nil, false
	}
	return &p, true
}

// requiredPeriod binds a mandatory month/year query.
func (b *Base) requiredPeriod(c *gin.Context) (planning.Period, bool) {
	p, ok := b.periodFilter(c)
	if !ok {
		return planning.Period{}, false
	}
	if p == nil {
		b.HandleError(c, planning.NewValidationError("month", "month and year are required"))
		return planning.Period{}, false
	}
	return *p, true
}
