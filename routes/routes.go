package routes

import (
	"github.com/gin-gonic/gin"

	"chargehub/handlers"
)

// RegisterRoutes registers the ops endpoints for the sweep job.
func RegisterRoutes(r *gin.Engine, sweepHandler *handlers.SweepHandler) {
	r.GET("/healthz", handlers.HealthHandler)

	api := r.Group("/api/sweep")
	{
		api.GET("/status", sweepHandler.StatusHandler)
		api.GET("/history", sweepHandler.HistoryHandler)
		api.POST("/run", sweepHandler.RunHandler)
	}
}
