package domain

import (
	"strings"
	"time"
)

// RewardKind - тип награды промокода
type RewardKind string

const (
	RewardCoins  RewardKind = "coins"
	RewardBomb   RewardKind = "bomb"
	RewardShield RewardKind = "shield"
)

type PromoCode struct {
	Code         string     `db:"code" json:"code"`
	RewardKind   RewardKind `db:"reward_kind" json:"reward_kind"`
	RewardAmount float64    `db:"reward_amount" json:"reward_amount"`
	MaxUses      *int64     `db:"max_uses" json:"max_uses,omitempty"` // nil = unlimited
	CurrentUses  int64      `db:"current_uses" json:"current_uses"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"` // nil = never
	CreatedBy    int64      `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// NormalizeCode upper-cases and trims a promo code for lookup and claim bookkeeping.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether the code can still be redeemed: active, not expired,
// and under its use cap.
func (p *PromoCode) Valid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return false
	}
	if p.MaxUses != nil && p.CurrentUses >= *p.MaxUses {
		return false
	}
	return true
}
