package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
)

// SchemaReporter reports the applied migration version.
type SchemaReporter interface {
	SchemaVersion(ctx context.Context) (int64, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	schema SchemaReporter
}

// NewHealthHandler creates a new health handler. schema may be nil.
func NewHealthHandler(schema SchemaReporter) *HealthHandler {
	return &HealthHandler{schema: schema}
}

// Get handles GET /health. A database that cannot report its schema is
// unhealthy.
func (h *HealthHandler) Get(c *gin.Context) {
	response := dto.NewHealthResponse()
	if h.schema != nil {
		v, err := h.schema.SchemaVersion(c.Request.Context())
		if err != nil {
			response.Status = "degraded"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.SchemaVersion = v
	}
	c.JSON(http.StatusOK, response)
}
