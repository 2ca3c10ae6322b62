package handlers

import (
	"net/http"
	"time"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/game"

	"github.com/gin-gonic/gin"
)

// DailyRewards reports the reward table, the effective streak, the last claim
// time and whether today's reward is still claimable.
func (h *Handler) DailyRewards(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, streak, err := h.Economy.DailyStatus(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dailyStatusJSON(p, streak, h.Economy.Config().DailyRewards, time.Now()))
}

func dailyStatusJSON(p *domain.Player, streak int64, rewards []game.DailyReward, now time.Time) gin.H {
	claimedToday := false
	var lastClaimed *string
	if p.LastDailyClaim != nil {
		nowUTC := now.UTC()
		last := p.LastDailyClaim.UTC()
		claimedToday = last.Year() == nowUTC.Year() && last.YearDay() == nowUTC.YearDay()
		s := last.Format(time.RFC3339)
		lastClaimed = &s
	}

	return gin.H{
		"streak":        streak,
		"claimed_today": claimedToday,
		"last_claimed":  lastClaimed,
		"rewards":       rewards,
	}
}

// ClaimDailyReward grants the next entry of the cycling table.
func (h *Handler) ClaimDailyReward(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, reward, err := h.Economy.ClaimDaily(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player": playerJSON(p),
		"reward": gin.H{"kind": reward.Kind, "amount": reward.Amount},
		"streak": p.DailyStreak,
	})
}
