// Package api assembles the gin router for the portfolio metrics server.
package api

import (
	"net/http"

	"portfolio-metrics/internal/api/handlers"
	"portfolio-metrics/internal/api/middleware"
	"portfolio-metrics/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the router needs.
type Dependencies struct {
	Calculator     handlers.Calculator
	Positions      handlers.PositionSource
	Calculation    config.CalculationConfig
	AllowedOrigins []string
	Registry       *prometheus.Registry
	Log            zerolog.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.Logger(deps.Log))
	router.Use(middleware.ErrorHandler(deps.Log))
	if deps.Registry != nil {
		router.Use(middleware.Metrics(deps.Registry))
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	calc := handlers.NewCalculationHandler(deps.Calculator, deps.Positions, deps.Calculation)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/calculate", calc.Calculate)
		v1.POST("/metrics", calc.Metrics)
		v1.GET("/rank", calc.Rank)
		v1.GET("/positions", calc.ListPositions)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
