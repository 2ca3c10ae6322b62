package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type BombRequest struct {
	TargetTgID int64 `json:"target_tg_id"`
}

// UseBomb spends a bomb on another player.
func (h *Handler) UseBomb(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BombRequest
	if err := c.BindJSON(&req); err != nil || req.TargetTgID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_tg_id required"})
		return
	}

	out, err := h.Economy.UseBomb(c.Request.Context(), tgID, req.TargetTgID)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome := "hit"
	if out.Absorbed {
		outcome = "absorbed"
	}
	bombsUsed.WithLabelValues(outcome).Inc()

	c.JSON(http.StatusOK, gin.H{
		"player":   playerJSON(out.Attacker),
		"target":   out.TargetUsername,
		"absorbed": out.Absorbed,
		"damage":   out.Damage,
	})
}

// ActivateShield arms a protection window from the inventory.
func (h *Handler) ActivateShield(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.Economy.ActivateShield(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": playerJSON(p)})
}
