package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// CatalogHandler serves the read-only product catalog.
type CatalogHandler struct {
	*Base
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(planner *service.PlannerService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{Base: NewBase(planner, logger)}
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.planner.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []planning.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// Products handles GET /api/products?categoryId=.
func (h *CatalogHandler) Products(c *gin.Context) {
	var categoryID int64
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid categoryId"))
			return
		}
		categoryID = id
	}
	products, err := h.planner.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if products == nil {
		products = []planning.Product{}
	}
	c.JSON(http.StatusOK, products)
}
