package handlers

import (
	"net/http"
	"strconv"

	"prop-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetBustPlayers ranks players by miss rate over resolved props
func (h *AnalyticsHandler) GetBustPlayers(c *gin.Context) {
	minProps, _ := strconv.Atoi(c.DefaultQuery("min_props", "3"))
	refresh := c.Query("refresh") == "true"

	rows, err := h.analytics.GetBustPlayers(c.Request.Context(), minProps, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute bust players"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}

// GetToughMatchups ranks opponent teams by miss rate
func (h *AnalyticsHandler) GetToughMatchups(c *gin.Context) {
	minGames, _ := strconv.Atoi(c.DefaultQuery("min_games", "2"))
	refresh := c.Query("refresh") == "true"

	rows, err := h.analytics.GetToughMatchups(c.Request.Context(), minGames, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tough matchups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}

// GetPlayerVsOpponent breaks a player's misses down by prop type against one
// opponent, or by opponent across the league.
func (h *AnalyticsHandler) GetPlayerVsOpponent(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Query("player_id"))
	if err != nil || playerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter player_id is required"})
		return
	}
	opponent := c.Query("opponent")

	rows, err := h.analytics.GetPlayerVsOpponentStats(c.Request.Context(), playerID, opponent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute player vs opponent stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}
