package handlers

import (
	"net/http"
	"strconv"

	"prop-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	players *services.PlayerService
}

func NewPlayerHandler(players *services.PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// SearchPlayers matches active players by name fragment
func (h *PlayerHandler) SearchPlayers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.players.SearchPlayers(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Player directory unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

// GetPlayer serves a player's profile snapshot
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
		return
	}

	profile, err := h.players.GetPlayerByID(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Player profile unavailable"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}
