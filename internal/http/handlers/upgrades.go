package handlers

import (
	"net/http"
	"strconv"

	"clicker_webapp/internal/game"

	"github.com/gin-gonic/gin"
)

// ListPassiveUpgrades returns the passive catalog priced for the caller.
func (h *Handler) ListPassiveUpgrades(c *gin.Context) {
	h.listUpgrades(c, game.UpgradePassive)
}

// ListClickUpgrades returns the click catalog priced for the caller.
func (h *Handler) ListClickUpgrades(c *gin.Context) {
	h.listUpgrades(c, game.UpgradeClick)
}

func (h *Handler) listUpgrades(c *gin.Context, kind game.UpgradeKind) {
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

	cat := h.Economy.Config().Catalog
	var quotes []game.UpgradeQuote
	if kind == game.UpgradePassive {
		quotes = game.QuotePassive(p, cat)
	} else {
		quotes = game.QuoteClick(p, cat)
	}

	c.JSON(http.StatusOK, gin.H{"upgrades": quotes, "balance": p.Balance})
}

// BuyUpgrade purchases one level of the upgrade named in the path.
func (h *Handler) BuyUpgrade(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind := game.UpgradeKind(c.Param("kind"))
	if kind != game.UpgradePassive && kind != game.UpgradeClick {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upgrade kind"})
		return
	}

	upgradeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upgrade id"})
		return
	}

	p, res, err := h.Economy.BuyUpgrade(c.Request.Context(), tgID, kind, upgradeID)
	if err != nil {
		respondError(c, err)
		return
	}

	upgradesPurchased.WithLabelValues(string(kind)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"player":    playerJSON(p),
		"price":     res.Price,
		"new_level": res.NewLevel,
	})
}
