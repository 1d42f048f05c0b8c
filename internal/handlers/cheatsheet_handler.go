package handlers

import (
	"net/http"
	"strings"

	"prop-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type CheatsheetHandler struct {
	cheatsheet *services.CheatsheetService
}

func NewCheatsheetHandler(cheatsheet *services.CheatsheetService) *CheatsheetHandler {
	return &CheatsheetHandler{cheatsheet: cheatsheet}
}

// GetCheatsheet flattens today's bookmaker player-prop lines. The service is
// nil when no odds API key is configured.
func (h *CheatsheetHandler) GetCheatsheet(c *gin.Context) {
	if h.cheatsheet == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Odds provider is not configured"})
		return
	}

	var markets []string
	if raw := c.Query("markets"); raw != "" {
		markets = strings.Split(raw, ",")
	}

	rows, err := h.cheatsheet.BuildCheatsheet(c.Request.Context(), markets)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}
