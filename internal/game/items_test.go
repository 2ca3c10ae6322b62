package game

import (
	"errors"
	"testing"
	"time"

	"clicker_webapp/internal/domain"
)

func TestResolveBombDamagesTarget(t *testing.T) {
	cfg := testConfig()
	attacker := newPlayer(1)
	attacker.Bombs = 2
	target := newPlayer(2)
	target.Balance = 500_000

	res, err := ResolveBomb(attacker, target, time.Now(), cfg)
	if err != nil {
		t.Fatalf("ResolveBomb: %v", err)
	}
	if res.Absorbed {
		t.Fatalf("unshielded target reported absorbed")
	}
	if attacker.Bombs != 1 {
		t.Fatalf("attacker bombs = %d; want 1", attacker.Bombs)
	}
	if target.Balance != 200_000 {
		t.Fatalf("target balance = %v; want 200000", target.Balance)
	}
}

func TestResolveBombFloorsAtZero(t *testing.T) {
	cfg := testConfig() // damage 300k
	attacker := newPlayer(1)
	attacker.Bombs = 1
	target := newPlayer(2)
	target.Balance = 100_000

	res, err := ResolveBomb(attacker, target, time.Now(), cfg)
	if err != nil {
		t.Fatalf("ResolveBomb: %v", err)
	}
	if target.Balance != 0 {
		t.Fatalf("target balance = %v; want exactly 0", target.Balance)
	}
	if res.Damage != 100_000 {
		t.Fatalf("reported damage = %v; want 100000", res.Damage)
	}
}

func TestResolveBombAbsorbedByShield(t *testing.T) {
	cfg := testConfig()
	attacker := newPlayer(1)
	attacker.Bombs = 1
	target := newPlayer(2)
	target.Balance = 500_000
	until := time.Now().Add(time.Hour)
	target.ShieldUntil = &until

	res, err := ResolveBomb(attacker, target, time.Now(), cfg)
	if err != nil {
		t.Fatalf("ResolveBomb: %v", err)
	}
	if !res.Absorbed {
		t.Fatalf("shielded target not reported absorbed")
	}
	// the bomb is consumed even on absorption, the target is untouched
	if attacker.Bombs != 0 {
		t.Fatalf("attacker bombs = %d; want 0", attacker.Bombs)
	}
	if target.Balance != 500_000 {
		t.Fatalf("shielded target balance changed to %v", target.Balance)
	}
}

func TestResolveBombExpiredShield(t *testing.T) {
	cfg := testConfig()
	attacker := newPlayer(1)
	attacker.Bombs = 1
	target := newPlayer(2)
	target.Balance = 500_000
	until := time.Now().Add(-time.Minute)
	target.ShieldUntil = &until

	res, err := ResolveBomb(attacker, target, time.Now(), cfg)
	if err != nil {
		t.Fatalf("ResolveBomb: %v", err)
	}
	if res.Absorbed {
		t.Fatalf("expired shield absorbed the hit")
	}
	if target.Balance != 200_000 {
		t.Fatalf("target balance = %v; want 200000", target.Balance)
	}
}

func TestResolveBombErrors(t *testing.T) {
	cfg := testConfig()

	attacker := newPlayer(1)
	target := newPlayer(2)
	if _, err := ResolveBomb(attacker, target, time.Now(), cfg); !errors.Is(err, ErrNoBombs) {
		t.Fatalf("err = %v; want ErrNoBombs", err)
	}

	attacker.Bombs = 1
	if _, err := ResolveBomb(attacker, attacker, time.Now(), cfg); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("err = %v; want ErrSelfTarget", err)
	}
	if attacker.Bombs != 1 {
		t.Fatalf("rejected attack consumed a bomb")
	}
}

func TestActivateShield(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	p := newPlayer(1)

	if err := ActivateShield(p, now, cfg); !errors.Is(err, ErrNoShields) {
		t.Fatalf("err = %v; want ErrNoShields", err)
	}

	p.Shields = 2
	if err := ActivateShield(p, now, cfg); err != nil {
		t.Fatalf("ActivateShield: %v", err)
	}
	if p.Shields != 1 {
		t.Fatalf("shields = %d; want 1", p.Shields)
	}
	if !p.ShieldUntil.Equal(now.Add(3 * time.Hour)) {
		t.Fatalf("shield until = %v; want %v", p.ShieldUntil, now.Add(3*time.Hour))
	}

	// re-arming later replaces the window instead of stacking
	later := now.Add(2 * time.Hour)
	if err := ActivateShield(p, later, cfg); err != nil {
		t.Fatalf("ActivateShield: %v", err)
	}
	if !p.ShieldUntil.Equal(later.Add(3 * time.Hour)) {
		t.Fatalf("re-armed shield until = %v; want %v", p.ShieldUntil, later.Add(3*time.Hour))
	}
}

func TestRedeemPromoLifecycle(t *testing.T) {
	now := time.Now()
	maxUses := int64(2)
	promo := &domain.PromoCode{
		Code:         "WELCOME",
		RewardKind:   domain.RewardCoins,
		RewardAmount: 1000,
		MaxUses:      &maxUses,
		IsActive:     true,
	}

	first := newPlayer(1)
	if _, err := RedeemPromo(first, promo, now); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if first.Balance != 1000 {
		t.Fatalf("balance = %v; want 1000", first.Balance)
	}
	if promo.CurrentUses != 1 {
		t.Fatalf("uses = %d; want 1", promo.CurrentUses)
	}

	// the same account cannot redeem twice
	if _, err := RedeemPromo(first, promo, now); !errors.Is(err, ErrPromoClaimed) {
		t.Fatalf("second redeem by same account: err = %v; want ErrPromoClaimed", err)
	}
	if promo.CurrentUses != 1 {
		t.Fatalf("failed redeem bumped uses to %d", promo.CurrentUses)
	}

	// a different account can, until the cap is hit
	second := newPlayer(2)
	if _, err := RedeemPromo(second, promo, now); err != nil {
		t.Fatalf("redeem by second account: %v", err)
	}

	third := newPlayer(3)
	if _, err := RedeemPromo(third, promo, now); !errors.Is(err, ErrPromoInvalid) {
		t.Fatalf("redeem over cap: err = %v; want ErrPromoInvalid", err)
	}
}

func TestRedeemPromoItemRewards(t *testing.T) {
	now := time.Now()
	p := newPlayer(1)

	bombPromo := &domain.PromoCode{Code: "BOOM", RewardKind: domain.RewardBomb, RewardAmount: 3, IsActive: true}
	if _, err := RedeemPromo(p, bombPromo, now); err != nil {
		t.Fatalf("redeem bomb promo: %v", err)
	}
	if p.Bombs != 3 {
		t.Fatalf("bombs = %d; want 3", p.Bombs)
	}

	shieldPromo := &domain.PromoCode{Code: "SAFE", RewardKind: domain.RewardShield, RewardAmount: 2, IsActive: true}
	if _, err := RedeemPromo(p, shieldPromo, now); err != nil {
		t.Fatalf("redeem shield promo: %v", err)
	}
	if p.Shields != 2 {
		t.Fatalf("shields = %d; want 2", p.Shields)
	}
}

func TestRedeemPromoValidity(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	cases := []struct {
		name  string
		promo domain.PromoCode
	}{
		{"inactive", domain.PromoCode{Code: "A", RewardKind: domain.RewardCoins, RewardAmount: 1, IsActive: false}},
		{"expired", domain.PromoCode{Code: "B", RewardKind: domain.RewardCoins, RewardAmount: 1, IsActive: true, ExpiresAt: &past}},
	}

	for _, tc := range cases {
		p := newPlayer(1)
		promo := tc.promo
		if _, err := RedeemPromo(p, &promo, now); !errors.Is(err, ErrPromoInvalid) {
			t.Fatalf("%s: err = %v; want ErrPromoInvalid", tc.name, err)
		}
		if p.Balance != 0 || len(p.ClaimedPromos) != 0 {
			t.Fatalf("%s: rejected redeem mutated player", tc.name)
		}
	}
}

func TestCompleteTaskOnce(t *testing.T) {
	p := newPlayer(1)
	task := &domain.Task{ID: 7, Reward: 250, IsActive: true}

	if err := CompleteTask(p, task); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if p.Balance != 250 {
		t.Fatalf("balance = %v; want 250", p.Balance)
	}
	if err := CompleteTask(p, task); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("second completion: err = %v; want ErrTaskCompleted", err)
	}
	if p.Balance != 250 {
		t.Fatalf("reward granted twice, balance %v", p.Balance)
	}
}
