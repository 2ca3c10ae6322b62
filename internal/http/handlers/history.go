package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// History returns the caller's recent ledger entries (purchases, rewards,
// bomb damage, offline earnings).
func (h *Handler) History(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.UserRepo.GetByTgID(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := h.LedgerRepo.GetByPlayerID(c.Request.Context(), p.ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
