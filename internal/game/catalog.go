package game

import (
	"fmt"
	"math"
	"os"

	"clicker_webapp/internal/domain"

	"gopkg.in/yaml.v3"
)

// PassiveUpgrade is a static catalog entry that raises income per second.
type PassiveUpgrade struct {
	ID              int64   `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Description     string  `yaml:"description" json:"description"`
	Icon            string  `yaml:"icon" json:"icon"`
	BasePrice       float64 `yaml:"base_price" json:"base_price"`
	BaseIncome      float64 `yaml:"base_income" json:"base_income"`
	PriceMultiplier float64 `yaml:"price_multiplier" json:"price_multiplier"`
}

// ClickUpgrade is a static catalog entry that raises coins earned per click.
type ClickUpgrade struct {
	ID              int64   `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Description     string  `yaml:"description" json:"description"`
	Icon            string  `yaml:"icon" json:"icon"`
	BasePrice       float64 `yaml:"base_price" json:"base_price"`
	ClickBoost      int64   `yaml:"click_boost" json:"click_boost"`
	PriceMultiplier float64 `yaml:"price_multiplier" json:"price_multiplier"`
}

// DailyReward is one entry of the cycling daily reward table.
type DailyReward struct {
	Kind   domain.RewardKind `yaml:"kind" json:"kind"`
	Amount float64           `yaml:"amount" json:"amount"`
}

// Catalog holds the ordered upgrade definitions. It is immutable after
// construction; the engine receives it as configuration instead of reading
// package-level state.
type Catalog struct {
	Passive []PassiveUpgrade `yaml:"passive_upgrades"`
	Click   []ClickUpgrade   `yaml:"click_upgrades"`
}

// PassiveByID returns the passive catalog entry, or nil when absent.
func (c *Catalog) PassiveByID(id int64) *PassiveUpgrade {
	for i := range c.Passive {
		if c.Passive[i].ID == id {
			return &c.Passive[i]
		}
	}
	return nil
}

// ClickByID returns the click catalog entry, or nil when absent.
func (c *Catalog) ClickByID(id int64) *ClickUpgrade {
	for i := range c.Click {
		if c.Click[i].ID == id {
			return &c.Click[i]
		}
	}
	return nil
}

// DefaultCatalog returns the built-in upgrade definitions.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Passive: []PassiveUpgrade{
			{ID: 1, Name: "Snack Stall", Description: "A humble start", Icon: "🍟", BasePrice: 100, BaseIncome: 0.01, PriceMultiplier: 1.2},
			{ID: 2, Name: "Mine Shaft", Description: "Dig a little deeper", Icon: "⛏️", BasePrice: 1_000, BaseIncome: 0.1, PriceMultiplier: 1.2},
			{ID: 3, Name: "Factory", Description: "Mass production", Icon: "🏭", BasePrice: 10_000, BaseIncome: 1, PriceMultiplier: 1.2},
			{ID: 4, Name: "Bank", Description: "Money makes money", Icon: "🏦", BasePrice: 100_000, BaseIncome: 5, PriceMultiplier: 1.2},
			{ID: 5, Name: "Car Dealership", Description: "Luxury on wheels", Icon: "🚗", BasePrice: 1_000_000, BaseIncome: 25, PriceMultiplier: 1.2},
			{ID: 6, Name: "Tech Startup", Description: "Disrupt everything", Icon: "🧑🏻", BasePrice: 10_000_000, BaseIncome: 100, PriceMultiplier: 1.2},
			{ID: 7, Name: "Holding Company", Description: "Own the owners", Icon: "👦🏻", BasePrice: 100_000_000, BaseIncome: 500, PriceMultiplier: 1.2},
			{ID: 8, Name: "Coin Empire", Description: "The top of the ladder", Icon: "🚬", BasePrice: 1_000_000_000, BaseIncome: 2500, PriceMultiplier: 1.2},
		},
		Click: []ClickUpgrade{
			{ID: 1, Name: "Rookie Finger", Description: "Everyone starts somewhere", Icon: "👆", BasePrice: 200, ClickBoost: 1, PriceMultiplier: 1.7},
			{ID: 2, Name: "Steady Hand", Description: "Getting the hang of it", Icon: "💪", BasePrice: 2_000, ClickBoost: 2, PriceMultiplier: 1.7},
			{ID: 3, Name: "Iron Fist", Description: "Now we're talking", Icon: "👊", BasePrice: 20_000, ClickBoost: 5, PriceMultiplier: 1.7},
			{ID: 4, Name: "Lightning Tap", Description: "Faster than the eye", Icon: "⚡", BasePrice: 200_000, ClickBoost: 10, PriceMultiplier: 1.7},
			{ID: 5, Name: "Golden Touch", Description: "Respect earned", Icon: "✨", BasePrice: 2_000_000, ClickBoost: 25, PriceMultiplier: 1.7},
			{ID: 6, Name: "Star Power", Description: "A legend of the tap", Icon: "🌟", BasePrice: 20_000_000, ClickBoost: 50, PriceMultiplier: 1.7},
		},
	}
}

// DefaultDailyRewards returns the built-in 7-day reward cycle.
func DefaultDailyRewards() []DailyReward {
	return []DailyReward{
		{Kind: domain.RewardShield, Amount: 1},
		{Kind: domain.RewardBomb, Amount: 1},
		{Kind: domain.RewardCoins, Amount: 500_000},
		{Kind: domain.RewardShield, Amount: 1},
		{Kind: domain.RewardBomb, Amount: 3},
		{Kind: domain.RewardCoins, Amount: 5_000_000},
		{Kind: domain.RewardBomb, Amount: 5},
	}
}

type catalogFile struct {
	Catalog      `yaml:",inline"`
	DailyRewards []DailyReward `yaml:"daily_rewards"`
}

// LoadCatalogFile reads catalog and daily reward overrides from a YAML file.
// Sections left empty in the file fall back to the defaults.
func LoadCatalogFile(path string) (*Catalog, []DailyReward, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parse catalog file: %w", err)
	}

	cat := DefaultCatalog()
	if len(f.Passive) > 0 {
		cat.Passive = f.Passive
	}
	if len(f.Click) > 0 {
		cat.Click = f.Click
	}

	rewards := DefaultDailyRewards()
	if len(f.DailyRewards) > 0 {
		rewards = f.DailyRewards
	}

	if err := validateCatalog(cat, rewards); err != nil {
		return nil, nil, err
	}
	return cat, rewards, nil
}

func validateCatalog(cat *Catalog, rewards []DailyReward) error {
	seen := make(map[int64]bool)
	for _, u := range cat.Passive {
		if u.PriceMultiplier <= 1 {
			return fmt.Errorf("passive upgrade %d: price multiplier must be > 1", u.ID)
		}
		if seen[u.ID] {
			return fmt.Errorf("passive upgrade %d: duplicate id", u.ID)
		}
		seen[u.ID] = true
	}
	seen = make(map[int64]bool)
	for _, u := range cat.Click {
		if u.PriceMultiplier <= 1 {
			return fmt.Errorf("click upgrade %d: price multiplier must be > 1", u.ID)
		}
		if seen[u.ID] {
			return fmt.Errorf("click upgrade %d: duplicate id", u.ID)
		}
		seen[u.ID] = true
	}
	if len(rewards) == 0 {
		return fmt.Errorf("daily reward table must not be empty")
	}
	for i, r := range rewards {
		switch r.Kind {
		case domain.RewardCoins, domain.RewardBomb, domain.RewardShield:
		default:
			return fmt.Errorf("daily reward %d: unknown kind %q", i, r.Kind)
		}
		if r.Amount <= 0 {
			return fmt.Errorf("daily reward %d: amount must be positive", i)
		}
		// bombs and shields are counted items, fractions would be lost
		if r.Kind != domain.RewardCoins && r.Amount != math.Trunc(r.Amount) {
			return fmt.Errorf("daily reward %d: %s amount must be a whole number", i, r.Kind)
		}
	}
	return nil
}
