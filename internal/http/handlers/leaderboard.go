package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLeaderboardSize = 100
	maxLeaderboardSize     = 200
)

func leaderboardLimit(c *gin.Context) int {
	limit := defaultLeaderboardSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxLeaderboardSize {
			limit = n
		}
	}
	return limit
}

// BalanceLeaderboard returns the richest players, top three flagged.
func (h *Handler) BalanceLeaderboard(c *gin.Context) {
	entries, err := h.UserRepo.TopByBalance(c.Request.Context(), leaderboardLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// ReferralLeaderboard ranks players by invited count.
func (h *Handler) ReferralLeaderboard(c *gin.Context) {
	entries, err := h.UserRepo.TopByReferrals(c.Request.Context(), leaderboardLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
