package game

import "clicker_webapp/internal/domain"

// UpgradeQuote is a catalog entry priced for a specific player, as shown in
// the shop screens.
type UpgradeQuote struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Level       int64   `json:"level"`
	Price       float64 `json:"price"`
	Income      float64 `json:"income,omitempty"`      // passive: income/s after the next purchase
	ClickBoost  int64   `json:"click_boost,omitempty"` // click: power gained per purchase
	CanAfford   bool    `json:"can_afford"`
}

// QuotePassive prices the passive catalog against the player's current levels.
func QuotePassive(p *domain.Player, cat *Catalog) []UpgradeQuote {
	quotes := make([]UpgradeQuote, 0, len(cat.Passive))
	for _, u := range cat.Passive {
		level := domain.UpgradeLevelOf(p.PassiveUpgrades, u.ID)
		price := UpgradePrice(u.BasePrice, level, u.PriceMultiplier)
		quotes = append(quotes, UpgradeQuote{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Icon:        u.Icon,
			Level:       level,
			Price:       price,
			Income:      PassiveIncome(u.BaseIncome, level+1),
			CanAfford:   p.Balance >= price,
		})
	}
	return quotes
}

// QuoteClick prices the click catalog against the player's current levels.
func QuoteClick(p *domain.Player, cat *Catalog) []UpgradeQuote {
	quotes := make([]UpgradeQuote, 0, len(cat.Click))
	for _, u := range cat.Click {
		level := domain.UpgradeLevelOf(p.ClickUpgrades, u.ID)
		price := UpgradePrice(u.BasePrice, level, u.PriceMultiplier)
		quotes = append(quotes, UpgradeQuote{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Icon:        u.Icon,
			Level:       level,
			Price:       price,
			ClickBoost:  ClickBoost(u.ClickBoost, 1),
			CanAfford:   p.Balance >= price,
		})
	}
	return quotes
}
