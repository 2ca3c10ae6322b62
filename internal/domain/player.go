package domain

import "time"

// UpgradeLevel is one owned catalog upgrade. Stored as JSONB on the player
// row so every per-account mutation is covered by a single row lock.
type UpgradeLevel struct {
	UpgradeID int64 `json:"upgrade_id"`
	Level     int64 `json:"level"`
}

type Player struct {
	ID               int64          `db:"id" json:"id"`
	TgID             int64          `db:"tg_id" json:"tg_id"`
	Username         string         `db:"username" json:"username"`
	Balance          float64        `db:"balance" json:"balance"`
	ClickPower       int64          `db:"click_power" json:"click_power"`
	IncomePerSecond  float64        `db:"income_per_second" json:"income_per_second"`
	PassiveUpgrades  []UpgradeLevel `db:"passive_upgrades" json:"passive_upgrades"`
	ClickUpgrades    []UpgradeLevel `db:"click_upgrades" json:"click_upgrades"`
	CompletedTasks   []int64        `db:"completed_tasks" json:"completed_tasks"`
	ClaimedPromos    []string       `db:"claimed_promocodes" json:"claimed_promocodes"`
	ReferredBy       *int64         `db:"referred_by" json:"referred_by,omitempty"` // tg id рефовода, ставится один раз
	ReferralCount    int64          `db:"referral_count" json:"referral_count"`
	ReferralEarnings float64        `db:"referral_earnings" json:"referral_earnings"`
	Bombs            int64          `db:"bombs" json:"bombs"`
	Shields          int64          `db:"shields" json:"shields"`
	ShieldUntil      *time.Time     `db:"shield_active_until" json:"shield_active_until,omitempty"`
	DailyStreak      int64          `db:"daily_reward_streak" json:"daily_reward_streak"`
	LastDailyClaim   *time.Time     `db:"last_daily_claim" json:"last_daily_claim,omitempty"`
	LastOnline       time.Time      `db:"last_online" json:"last_online"`
	IsAdmin          bool           `db:"is_admin" json:"is_admin"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// ShieldActive reports whether a shield window covers the given instant.
func (p *Player) ShieldActive(now time.Time) bool {
	return p.ShieldUntil != nil && now.Before(*p.ShieldUntil)
}

func (p *Player) HasCompletedTask(taskID int64) bool {
	for _, id := range p.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

func (p *Player) HasClaimedPromo(code string) bool {
	for _, c := range p.ClaimedPromos {
		if c == code {
			return true
		}
	}
	return false
}

// UpgradeLevelOf returns the owned level of an upgrade, zero when not owned.
func UpgradeLevelOf(levels []UpgradeLevel, upgradeID int64) int64 {
	for _, l := range levels {
		if l.UpgradeID == upgradeID {
			return l.Level
		}
	}
	return 0
}

// BumpUpgradeLevel raises the level of upgradeID by one, appending the entry
// on first purchase.
func BumpUpgradeLevel(levels []UpgradeLevel, upgradeID int64) []UpgradeLevel {
	for i := range levels {
		if levels[i].UpgradeID == upgradeID {
			levels[i].Level++
			return levels
		}
	}
	return append(levels, UpgradeLevel{UpgradeID: upgradeID, Level: 1})
}
