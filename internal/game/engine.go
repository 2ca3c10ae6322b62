package game

import (
	"errors"
	"time"

	"clicker_webapp/internal/domain"
)

// Expected, user-facing outcomes. Handlers translate these into structured
// JSON responses; anything else is an infrastructure failure.
var (
	ErrUpgradeNotFound     = errors.New("upgrade not found")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrNoBombs             = errors.New("no bombs in inventory")
	ErrNoShields           = errors.New("no shields in inventory")
	ErrSelfTarget          = errors.New("cannot target yourself")
	ErrTaskCompleted       = errors.New("task already completed")
	ErrPromoClaimed        = errors.New("promo code already claimed")
	ErrPromoInvalid        = errors.New("promo code is not valid")
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed today")
)

// UpgradeKind selects one of the two catalogs.
type UpgradeKind string

const (
	UpgradePassive UpgradeKind = "passive"
	UpgradeClick   UpgradeKind = "click"
)

// Config carries every tunable of the economy. It is built once from the
// application config and shared read-only.
type Config struct {
	BombDropChance   float64
	ShieldDropChance float64
	BombDamage       float64
	ShieldDuration   time.Duration
	ReferralReward   float64
	OfflineCap       time.Duration
	DailyRewards     []DailyReward
	Catalog          *Catalog
}

// ClickResult is the observable outcome of a click batch.
type ClickResult struct {
	CoinsEarned float64
	Bonus       domain.RewardKind // empty when nothing dropped
}

// ApplyClick credits clickPower×clicks and rolls the bonus drop. roll is one
// uniform draw in [0,1) compared against stacked thresholds, bomb first, so at
// most one bonus drops per batch.
func ApplyClick(p *domain.Player, clicks int64, roll float64, now time.Time, cfg *Config) ClickResult {
	if clicks < 1 {
		clicks = 1
	}
	earned := float64(p.ClickPower * clicks)
	p.Balance += earned
	p.LastOnline = now

	res := ClickResult{CoinsEarned: earned}
	if roll < cfg.BombDropChance {
		p.Bombs++
		res.Bonus = domain.RewardBomb
	} else if roll < cfg.BombDropChance+cfg.ShieldDropChance {
		p.Shields++
		res.Bonus = domain.RewardShield
	}
	return res
}

// PurchaseResult is the observable outcome of an upgrade purchase.
type PurchaseResult struct {
	Price    float64
	NewLevel int64
}

// BuyUpgrade debits the current-level price and raises the upgrade level by
// one, then recomputes incomePerSecond / clickPower from all owned levels.
// Recomputing from source on every purchase is deliberate: the rates are
// derived state and must never drift from the levels that define them.
func BuyUpgrade(p *domain.Player, kind UpgradeKind, upgradeID int64, cfg *Config) (PurchaseResult, error) {
	var basePrice, multiplier float64

	switch kind {
	case UpgradePassive:
		u := cfg.Catalog.PassiveByID(upgradeID)
		if u == nil {
			return PurchaseResult{}, ErrUpgradeNotFound
		}
		basePrice, multiplier = u.BasePrice, u.PriceMultiplier
	case UpgradeClick:
		u := cfg.Catalog.ClickByID(upgradeID)
		if u == nil {
			return PurchaseResult{}, ErrUpgradeNotFound
		}
		basePrice, multiplier = u.BasePrice, u.PriceMultiplier
	default:
		return PurchaseResult{}, ErrUpgradeNotFound
	}

	var level int64
	if kind == UpgradePassive {
		level = domain.UpgradeLevelOf(p.PassiveUpgrades, upgradeID)
	} else {
		level = domain.UpgradeLevelOf(p.ClickUpgrades, upgradeID)
	}

	price := UpgradePrice(basePrice, level, multiplier)
	if p.Balance < price {
		return PurchaseResult{}, ErrInsufficientFunds
	}
	p.Balance -= price

	if kind == UpgradePassive {
		p.PassiveUpgrades = domain.BumpUpgradeLevel(p.PassiveUpgrades, upgradeID)
		p.IncomePerSecond = TotalIncome(p.PassiveUpgrades, cfg.Catalog)
	} else {
		p.ClickUpgrades = domain.BumpUpgradeLevel(p.ClickUpgrades, upgradeID)
		p.ClickPower = TotalClickPower(p.ClickUpgrades, cfg.Catalog)
	}

	return PurchaseResult{Price: price, NewLevel: level + 1}, nil
}

// TotalIncome sums passive income over all owned levels.
func TotalIncome(levels []domain.UpgradeLevel, cat *Catalog) float64 {
	var total float64
	for _, l := range levels {
		if u := cat.PassiveByID(l.UpgradeID); u != nil {
			total += PassiveIncome(u.BaseIncome, l.Level)
		}
	}
	return total
}

// TotalClickPower is 1 (base) plus the boost of all owned click upgrade levels.
func TotalClickPower(levels []domain.UpgradeLevel, cat *Catalog) int64 {
	var power int64 = 1
	for _, l := range levels {
		if u := cat.ClickByID(l.UpgradeID); u != nil {
			power += ClickBoost(u.ClickBoost, l.Level)
		}
	}
	return power
}

// OfflineEarnings returns the passive income accrued since lastOnline,
// clamped to the offline cap. Inconsistent clocks yield zero, never a debit.
func OfflineEarnings(p *domain.Player, now time.Time, cfg *Config) float64 {
	if p.IncomePerSecond == 0 {
		return 0
	}
	elapsed := now.Sub(p.LastOnline)
	if elapsed < 0 {
		return 0
	}
	if elapsed > cfg.OfflineCap {
		elapsed = cfg.OfflineCap
	}
	secs := int64(elapsed.Seconds())
	return p.IncomePerSecond * float64(secs)
}

// AccrueOffline credits offline earnings and stamps lastOnline. Called only on
// session start; passive income is never ticked server-side.
func AccrueOffline(p *domain.Player, now time.Time, cfg *Config) float64 {
	earned := OfflineEarnings(p, now, cfg)
	p.Balance += earned
	p.LastOnline = now
	return earned
}

// BombResult is the observable outcome of a bomb attack.
type BombResult struct {
	Absorbed bool
	Damage   float64 // actual balance reduction, 0 when absorbed
}

// ResolveBomb spends one of the attacker's bombs against the target. The bomb
// is consumed even when the target's shield absorbs the hit. Damage floors the
// target's balance at zero.
func ResolveBomb(attacker, target *domain.Player, now time.Time, cfg *Config) (BombResult, error) {
	if attacker.ID == target.ID {
		return BombResult{}, ErrSelfTarget
	}
	if attacker.Bombs < 1 {
		return BombResult{}, ErrNoBombs
	}

	attacker.Bombs--

	if target.ShieldActive(now) {
		return BombResult{Absorbed: true}, nil
	}

	damage := cfg.BombDamage
	if damage > target.Balance {
		damage = target.Balance
	}
	target.Balance -= damage
	return BombResult{Damage: damage}, nil
}

// ActivateShield consumes one shield and arms protection for a fresh
// full-duration window from now. Re-arming replaces the expiry, it does not
// stack.
func ActivateShield(p *domain.Player, now time.Time, cfg *Config) error {
	if p.Shields < 1 {
		return ErrNoShields
	}
	p.Shields--
	until := now.Add(cfg.ShieldDuration)
	p.ShieldUntil = &until
	return nil
}

// dateOf truncates a timestamp to its civil date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EffectiveStreak returns the streak the next claim will be computed from:
// the stored streak, or zero when the chain broke (last claim before
// yesterday).
func EffectiveStreak(p *domain.Player, now time.Time) int64 {
	if p.LastDailyClaim == nil {
		return p.DailyStreak
	}
	today := dateOf(now)
	last := dateOf(*p.LastDailyClaim)
	if today.Sub(last) >= 48*time.Hour {
		return 0
	}
	return p.DailyStreak
}

// ClaimDaily grants the next reward of the cycling table. A claim on the same
// civil day fails; a gap of two or more days resets the streak first.
func ClaimDaily(p *domain.Player, now time.Time, cfg *Config) (DailyReward, error) {
	today := dateOf(now)
	if p.LastDailyClaim != nil && dateOf(*p.LastDailyClaim).Equal(today) {
		return DailyReward{}, ErrDailyAlreadyClaimed
	}

	streak := EffectiveStreak(p, now)
	reward := cfg.DailyRewards[streak%int64(len(cfg.DailyRewards))]
	grantReward(p, reward.Kind, reward.Amount)

	p.DailyStreak = streak + 1
	p.LastDailyClaim = &today
	p.LastOnline = now
	return reward, nil
}

// RedeemPromo grants the typed reward of a promo code once per account and
// bumps the code's global use counter. The caller persists both records as one
// transaction.
func RedeemPromo(p *domain.Player, promo *domain.PromoCode, now time.Time) (DailyReward, error) {
	if !promo.Valid(now) {
		return DailyReward{}, ErrPromoInvalid
	}
	if p.HasClaimedPromo(promo.Code) {
		return DailyReward{}, ErrPromoClaimed
	}

	grantReward(p, promo.RewardKind, promo.RewardAmount)
	p.ClaimedPromos = append(p.ClaimedPromos, promo.Code)
	promo.CurrentUses++
	return DailyReward{Kind: promo.RewardKind, Amount: promo.RewardAmount}, nil
}

// CompleteTask credits the task reward once. Subscription verification happens
// before this is called.
func CompleteTask(p *domain.Player, task *domain.Task) error {
	if p.HasCompletedTask(task.ID) {
		return ErrTaskCompleted
	}
	p.Balance += task.Reward
	p.CompletedTasks = append(p.CompletedTasks, task.ID)
	return nil
}

func grantReward(p *domain.Player, kind domain.RewardKind, amount float64) {
	switch kind {
	case domain.RewardCoins:
		p.Balance += amount
	case domain.RewardBomb:
		p.Bombs += int64(amount)
	case domain.RewardShield:
		p.Shields += int64(amount)
	}
}
