package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-emoji-insights/internal/api/shared/dto"
	"github.com/feral-file/ff-emoji-insights/internal/api/shared/executor"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetAllTimeUsage renders the workspace-wide rankings
	// GET /api/v1/emojis/all-time?tz=<timezone>
	GetAllTimeUsage(c *gin.Context)

	// GetMemberUsage renders one member's most used emojis
	// GET /api/v1/members/:name/emojis?tz=<timezone>&n=<1..10>
	GetMemberUsage(c *gin.Context)

	// ListMembers lists the member directory
	// GET /api/v1/members
	ListMembers(c *gin.Context)

	// ListTimezones lists the supported timezones
	// GET /api/v1/timezones
	ListTimezones(c *gin.Context)

	// RefreshCache drops every cached store read
	// POST /api/v1/cache/refresh
	RefreshCache(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// GetAllTimeUsage renders the top, most recently used and least recently used emojis
func (h *handler) GetAllTimeUsage(c *gin.Context) {
	queryParams, err := ParseAllTimeUsageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetAllTimeUsage(c.Request.Context(), queryParams.Timezone)
	if err != nil {
		respondError(c, err, "Failed to get emoji usage")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMemberUsage renders the top N emojis of one member
func (h *handler) GetMemberUsage(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		respondBadRequest(c, "Member name is required")
		return
	}

	queryParams, err := ParseMemberUsageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetMemberUsage(c.Request.Context(), name, queryParams.Timezone, queryParams.TopN)
	if err != nil {
		respondError(c, err, "Failed to get member emoji usage")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMembers lists the member directory
func (h *handler) ListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, h.executor.ListMembers(c.Request.Context()))
}

// ListTimezones lists the supported timezones
func (h *handler) ListTimezones(c *gin.Context) {
	c.JSON(http.StatusOK, h.executor.ListTimezones(c.Request.Context()))
}

// RefreshCache drops every cached store read so the next request reads live data
func (h *handler) RefreshCache(c *gin.Context) {
	response := h.executor.RefreshCache(c.Request.Context())

	logger.InfoCtx(c.Request.Context(), "Cache refresh requested",
		zap.String("client_ip", c.ClientIP()),
	)

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.executor.CheckHealth(c.Request.Context()); err != nil {
		logger.WarnCtx(c.Request.Context(), "Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "unhealthy",
			Database: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "healthy",
		Database: "ok",
	})
}
