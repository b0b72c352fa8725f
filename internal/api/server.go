package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/growthplan-backend/internal/api/dto"
	"github.com/eshaffer321/growthplan-backend/internal/api/handlers"
	"github.com/eshaffer321/growthplan-backend/internal/api/middleware"
	"github.com/eshaffer321/growthplan-backend/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	planner    *service.PlannerService
	schema     handlers.SchemaReporter
}

// NewServer creates a new API server. schema backs the health check and
// may be nil.
func NewServer(cfg Config, planner *service.PlannerService, schema handlers.SchemaReporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		router:  gin.New(),
		logger:  logger,
		planner: planner,
		schema:  schema,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(gin.Recovery())

	corsConfig := middleware.DefaultCORSConfig()
	if len(s.config.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = s.config.AllowedOrigins
	}
	s.router.Use(middleware.CORS(corsConfig))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.router.GET("/health", handlers.NewHealthHandler(s.schema).Get)

	r := s.router.Group("/api")

	budget := handlers.NewBudgetHandler(s.planner, s.logger)
	r.GET("/budget", budget.List)
	r.POST("/budget", budget.Create)
	r.GET("/budget/:id", budget.Get)
	r.PUT("/budget/:id", budget.Update)
	r.DELETE("/budget/:id", budget.Delete)

	adProducts := handlers.NewAdProductHandler(s.planner, s.logger)
	r.GET("/ad-products", adProducts.List)
	r.POST("/ad-products", adProducts.Create)
	r.GET("/ad-products/:id", adProducts.Get)
	r.PUT("/ad-products/:id", adProducts.Update)
	r.DELETE("/ad-products/:id", adProducts.Delete)

	targets := handlers.NewSellingTargetHandler(s.planner, s.logger)
	r.GET("/selling-targets", targets.List)
	r.POST("/selling-targets", targets.Record)

	catalog := handlers.NewCatalogHandler(s.planner, s.logger)
	r.GET("/categories", catalog.Categories)
	r.GET("/products", catalog.Products)

	reports := handlers.NewReportHandler(s.planner, s.logger)
	r.GET("/summary", reports.Summary)
	r.GET("/reports/plan.xlsx", reports.Export)

	recompute := handlers.NewRecomputeHandler(s.planner, s.logger)
	r.POST("/recompute", recompute.Recompute)
	r.GET("/recompute/runs", recompute.List)
	r.GET("/recompute/runs/:id", recompute.Get)
	r.POST("/recompute/runs/:id/retry", recompute.Retry)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NotFoundError("route"))
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
