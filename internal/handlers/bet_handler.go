package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"prop-tracker/internal/models"
	"prop-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BetHandler struct {
	ledger  *services.LedgerService
	resolve *services.ResolveService
}

func NewBetHandler(ledger *services.LedgerService, resolve *services.ResolveService) *BetHandler {
	return &BetHandler{ledger: ledger, resolve: resolve}
}

// CreateBet records a new bet
func (h *BetHandler) CreateBet(c *gin.Context) {
	var req models.CreateBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.ledger.CreateBet(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bet,
	})
}

// AddProp attaches a prop leg to an existing bet
func (h *BetHandler) AddProp(c *gin.Context) {
	betID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet id"})
		return
	}

	var req models.AddPropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prop, err := h.ledger.AddProp(c.Request.Context(), betID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    prop,
	})
}

// MarkBetResult sets a bet's overall result
func (h *BetHandler) MarkBetResult(c *gin.Context) {
	betID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet id"})
		return
	}

	var req models.MarkBetResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ledger.MarkBetResult(c.Request.Context(), betID, req.Result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark bet result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkPropResult manually sets a prop's result, optionally capturing miss
// context for misses.
func (h *BetHandler) MarkPropResult(c *gin.Context) {
	propID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prop id"})
		return
	}

	var req models.MarkPropResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Result != string(models.PropResultHit) && req.Result != string(models.PropResultMiss) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Result must be hit or miss"})
		return
	}

	capture := true
	if req.CaptureStats != nil {
		capture = *req.CaptureStats
	}

	if err := h.ledger.MarkPropResult(c.Request.Context(), propID, req.Result, *req.ActualValue, capture); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark prop result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AutoResolveProp resolves one prop from the stat feed
func (h *BetHandler) AutoResolveProp(c *gin.Context) {
	propID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prop id"})
		return
	}
	capture := c.DefaultQuery("capture_stats", "true") == "true"

	res, err := h.resolve.AutoResolveProp(c.Request.Context(), propID, capture)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prop not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    res,
	})
}

// BatchResolve resolves a list of props, isolating per-prop failures
func (h *BetHandler) BatchResolve(c *gin.Context) {
	var req struct {
		PropIDs      []uint `json:"prop_ids" binding:"required"`
		CaptureStats *bool  `json:"capture_stats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capture := true
	if req.CaptureStats != nil {
		capture = *req.CaptureStats
	}

	results := h.resolve.BatchResolve(c.Request.Context(), req.PropIDs, capture)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

// GetRecentBets lists bets newest-first with their legs
func (h *BetHandler) GetRecentBets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	summaries, err := h.ledger.GetRecentBets(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
		"count":   len(summaries),
	})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
