package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/services"
)

// API holds dependencies for API handlers, primarily the key breaker.
type API struct {
	engine services.Breaker
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.Breaker) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all the API routes for the key breaker.
func SetupRoutes(router *gin.Engine, engine services.Breaker) {
	apiHandler := NewAPI(engine)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Cipher routes
	router.POST("/crack", apiHandler.CrackHandler)
	router.POST("/encrypt", apiHandler.EncryptHandler)
	router.POST("/decrypt", apiHandler.DecryptHandler)

	// Archived results
	resultRoutes := router.Group("/results")
	{
		resultRoutes.GET("", apiHandler.ListResultsHandler)             // List archived crack results
		resultRoutes.DELETE("/:jobId", apiHandler.DeleteResultHandler)  // Delete an archived result
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)                   // List jobs, optionally by status
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)      // Get job performance metrics
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)              // Get job status by ID
		jobRoutes.GET("/:jobId/result", apiHandler.GetJobResultHandler) // Get the recovered key and plaintext
		jobRoutes.DELETE("/:jobId", apiHandler.CancelJobHandler)        // Cancel a pending or running job
	}
}

// NewRouter builds a gin engine with the standard middleware stack and all
// routes registered.
func NewRouter(engine services.Breaker, maxRequestBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBytes))
	SetupRoutes(router, engine)
	return router
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	settings := api.engine.Settings()
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "go-xor-breaker",
		"strategy":   settings.Strategy,
		"strategies": scoring.Strategies(),
		"workers":    settings.Workers,
		"timestamp":  fmt.Sprintf("%d", time.Now().Unix()),
	})
}
