package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage"
)

// AdProductHandler handles ad product entry requests.
type AdProductHandler struct {
	*Base
}

// NewAdProductHandler creates a new ad product handler.
func NewAdProductHandler(planner *service.PlannerService, logger *slog.Logger) *AdProductHandler {
	return &AdProductHandler{Base: NewBase(planner, logger)}
}

// List handles GET /api/ad-products.
func (h *AdProductHandler) List(c *gin.Context) {
	period, ok := h.periodFilter(c)
	if !ok {
		return
	}
	entries, err := h.planner.ListAdProducts(c.Request.Context(), storage.AdProductFilter{
		Period:    period,
		ProductID: c.Query("product_id"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if entries == nil {
		entries = []planning.AdProductEntry{}
	}
	c.JSON(http.StatusOK, dto.AdProductListResponse{Entries: entries, Count: len(entries)})
}

// Get handles GET /api/ad-products/:id.
func (h *AdProductHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "ad product")
	if !ok {
		return
	}
	entry, err := h.planner.GetAdProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Create handles POST /api/ad-products.
func (h *AdProductHandler) Create(c *gin.Context) {
	var req dto.AdProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.planner.CreateAdProduct(c.Request.Context(), req.Entry())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Update handles PUT /api/ad-products/:id as a partial update.
func (h *AdProductHandler) Update(c *gin.Context) {
	id, ok := ParseID(c, "ad product")
	if !ok {
		return
	}
	var req dto.AdProductPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.planner.UpdateAdProduct(c.Request.Context(), id, req.Patch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/ad-products/:id. Its selling targets go too.
func (h *AdProductHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c, "ad product")
	if !ok {
		return
	}
	runs, err := h.planner.DeleteAdProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{ID: id, Deleted: true, Recomputes: runs})
}
