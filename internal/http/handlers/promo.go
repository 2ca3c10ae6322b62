package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PromoRequest struct {
	Code string `json:"code"`
}

// ActivatePromo redeems a promo code, once per account.
func (h *Handler) ActivatePromo(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PromoRequest
	if err := c.BindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}

	p, reward, err := h.Economy.RedeemPromo(c.Request.Context(), tgID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	promoRedeemed.Inc()

	c.JSON(http.StatusOK, gin.H{
		"player": playerJSON(p),
		"reward": gin.H{"kind": reward.Kind, "amount": reward.Amount},
	})
}
