package handlers

import (
	"net/http"
	"strconv"

	"prop-tracker/internal/services"
	"prop-tracker/internal/stats"

	"github.com/gin-gonic/gin"
)

type ResearchHandler struct {
	research *services.ResearchService
}

func NewResearchHandler(research *services.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// PlayerResearch summarizes a player's production in a stat category over a
// filtered game window.
func (h *ResearchHandler) PlayerResearch(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Query("player_id"))
	if err != nil || playerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter player_id is required"})
		return
	}

	period, err := stats.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	propType, err := stats.ParsePropType(c.DefaultQuery("prop_type", "points"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, _ := strconv.ParseFloat(c.Query("line"), 64)
	lastN, _ := strconv.Atoi(c.Query("last_n"))

	filter := services.ResearchFilter{
		PlayerID: playerID,
		PropType: propType,
		Period:   period,
		Season:   c.Query("season"),
		Opponent: c.Query("opponent"),
		Result:   c.Query("result"),
		Line:     line,
		LastN:    lastN,
	}

	summary, err := h.research.PlayerResearch(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
