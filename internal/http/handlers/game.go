package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClickRequest struct {
	Clicks int64 `json:"clicks"`
}

const maxClicksPerBatch = 200

// Click credits one batch of clicks. The batch size is clamped server-side;
// the rate limiter bounds how often batches arrive.
func (h *Handler) Click(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ClickRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Clicks <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clicks must be positive"})
		return
	}
	if req.Clicks > maxClicksPerBatch {
		req.Clicks = maxClicksPerBatch
	}

	p, res, err := h.Economy.Click(c.Request.Context(), tgID, req.Clicks)
	if err != nil {
		respondError(c, err)
		return
	}

	clicksProcessed.Add(float64(req.Clicks))
	if res.Bonus != "" {
		bonusDrops.WithLabelValues(string(res.Bonus)).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"player":       playerJSON(p),
		"coins_earned": res.CoinsEarned,
		"bonus":        res.Bonus,
	})
}

// Me returns the player snapshot without mutating anything.
func (h *Handler) Me(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, _, err := h.Economy.DailyStatus(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": playerJSON(p)})
}
