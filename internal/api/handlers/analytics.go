package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/services"
)

// AnalyticsSource aggregates stored triage records
type AnalyticsSource interface {
	BuildAnalytics() (*services.AnalyticsSnapshot, error)
}

// AnalyticsHandler serves aggregate triage statistics
type AnalyticsHandler struct {
	source AnalyticsSource
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance
func NewAnalyticsHandler(source AnalyticsSource) *AnalyticsHandler {
	return &AnalyticsHandler{source: source}
}

// Analytics returns the trailing-window analytics snapshot
// GET /api/analytics
func (h *AnalyticsHandler) Analytics(c *gin.Context) {
	snapshot, err := h.source.BuildAnalytics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYTICS_FAILED",
				"message": "Failed to build analytics snapshot",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}
