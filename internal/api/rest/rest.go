package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-emoji-insights/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, refreshLimiter gin.HandlerFunc) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes (require authentication)
	v1 := router.Group("/api/v1", middleware.Auth(authCfg))
	{
		v1.GET("/timezones", handler.ListTimezones)
		v1.GET("/members", handler.ListMembers)

		// Usage views
		v1.GET("/emojis/all-time", handler.GetAllTimeUsage)
		v1.GET("/members/:name/emojis", handler.GetMemberUsage)

		// Manual cache invalidation (rate limited)
		v1.POST("/cache/refresh", refreshLimiter, handler.RefreshCache)
	}
}
