package game

import (
	"errors"
	"testing"
	"time"

	"clicker_webapp/internal/domain"
)

func testConfig() *Config {
	return &Config{
		BombDropChance:   0.001,
		ShieldDropChance: 0.001,
		BombDamage:       300_000,
		ShieldDuration:   3 * time.Hour,
		ReferralReward:   1_000_000,
		OfflineCap:       24 * time.Hour,
		DailyRewards:     DefaultDailyRewards(),
		Catalog:          DefaultCatalog(),
	}
}

func newPlayer(id int64) *domain.Player {
	return &domain.Player{
		ID:         id,
		TgID:       id,
		ClickPower: 1,
		LastOnline: time.Now(),
	}
}

func TestApplyClickCreditsClickPower(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.ClickPower = 7

	now := time.Now()
	res := ApplyClick(p, 10, 0.5, now, cfg)

	if res.CoinsEarned != 70 {
		t.Fatalf("coins earned = %v; want 70", res.CoinsEarned)
	}
	if p.Balance != 70 {
		t.Fatalf("balance = %v; want 70", p.Balance)
	}
	if res.Bonus != "" {
		t.Fatalf("unexpected bonus drop %q at roll 0.5", res.Bonus)
	}
	if !p.LastOnline.Equal(now) {
		t.Fatalf("lastOnline not updated")
	}
}

func TestApplyClickBonusThresholds(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		roll        float64
		wantBonus   domain.RewardKind
		wantBombs   int64
		wantShields int64
	}{
		{0.0000, domain.RewardBomb, 1, 0},
		{0.0009, domain.RewardBomb, 1, 0},
		{0.0010, domain.RewardShield, 0, 1},
		{0.0019, domain.RewardShield, 0, 1},
		{0.0020, "", 0, 0},
		{0.9999, "", 0, 0},
	}

	for _, tc := range cases {
		p := newPlayer(1)
		res := ApplyClick(p, 1, tc.roll, time.Now(), cfg)
		if res.Bonus != tc.wantBonus {
			t.Fatalf("roll %v: bonus = %q; want %q", tc.roll, res.Bonus, tc.wantBonus)
		}
		if p.Bombs != tc.wantBombs || p.Shields != tc.wantShields {
			t.Fatalf("roll %v: inventory = %d bombs, %d shields; want %d/%d",
				tc.roll, p.Bombs, p.Shields, tc.wantBombs, tc.wantShields)
		}
		if p.Bombs+p.Shields > 1 {
			t.Fatalf("roll %v: more than one bonus dropped in a single batch", tc.roll)
		}
	}
}

func TestBuyUpgradePriceProgression(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.Balance = 1_000_000

	// first purchase at level 0, second at level 1
	res1, err := BuyUpgrade(p, UpgradeClick, 1, cfg)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	res2, err := BuyUpgrade(p, UpgradeClick, 1, cfg)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	if res1.Price != 200 || res2.Price != 340 {
		t.Fatalf("prices = %v, %v; want 200, 340", res1.Price, res2.Price)
	}
	if res1.NewLevel != 1 || res2.NewLevel != 2 {
		t.Fatalf("levels = %d, %d; want 1, 2", res1.NewLevel, res2.NewLevel)
	}
	if p.Balance != 1_000_000-540 {
		t.Fatalf("balance = %v; want %v", p.Balance, 1_000_000-540)
	}
}

func TestBuyClickUpgradeRecomputesPower(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.Balance = 1e12

	// two levels of upgrade 1 (boost 1) and one of upgrade 3 (boost 5)
	mustBuy(t, p, UpgradeClick, 1, cfg)
	mustBuy(t, p, UpgradeClick, 1, cfg)
	mustBuy(t, p, UpgradeClick, 3, cfg)

	want := int64(1 + 1*2 + 5*1)
	if p.ClickPower != want {
		t.Fatalf("click power = %d; want %d", p.ClickPower, want)
	}
	if got := TotalClickPower(p.ClickUpgrades, cfg.Catalog); got != p.ClickPower {
		t.Fatalf("stored power %d drifted from recomputed %d", p.ClickPower, got)
	}
}

func TestBuyPassiveUpgradeRecomputesIncome(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.Balance = 1e12

	mustBuy(t, p, UpgradePassive, 1, cfg) // 0.01/s per level
	mustBuy(t, p, UpgradePassive, 1, cfg)
	mustBuy(t, p, UpgradePassive, 3, cfg) // 1/s per level

	want := 0.01*2 + 1
	if p.IncomePerSecond != want {
		t.Fatalf("income = %v; want %v", p.IncomePerSecond, want)
	}
}

func TestBuyUpgradeInsufficientFunds(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.Balance = 199

	_, err := BuyUpgrade(p, UpgradeClick, 1, cfg)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v; want ErrInsufficientFunds", err)
	}
	if p.Balance != 199 || len(p.ClickUpgrades) != 0 {
		t.Fatalf("rejected purchase mutated state: balance=%v upgrades=%v", p.Balance, p.ClickUpgrades)
	}
}

func TestBuyUpgradeUnknownID(t *testing.T) {
	cfg := testConfig()
	p := newPlayer(1)
	p.Balance = 1e9

	for _, kind := range []UpgradeKind{UpgradePassive, UpgradeClick} {
		if _, err := BuyUpgrade(p, kind, 999, cfg); !errors.Is(err, ErrUpgradeNotFound) {
			t.Fatalf("kind %s: err = %v; want ErrUpgradeNotFound", kind, err)
		}
	}
}

func TestOfflineEarnings(t *testing.T) {
	cfg := testConfig()
	now := time.Now()

	cases := []struct {
		name    string
		income  float64
		offline time.Duration
		want    float64
	}{
		{"two hours", 10, 2 * time.Hour, 72_000},
		{"capped at 24h", 10, 30 * time.Hour, 864_000},
		{"zero income", 0, 10 * time.Hour, 0},
		{"clock skew", 10, -time.Hour, 0},
	}

	for _, tc := range cases {
		p := newPlayer(1)
		p.IncomePerSecond = tc.income
		p.LastOnline = now.Add(-tc.offline)

		if got := OfflineEarnings(p, now, cfg); got != tc.want {
			t.Fatalf("%s: earnings = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestAccrueOfflineStampsLastOnline(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	p := newPlayer(1)
	p.IncomePerSecond = 1
	p.LastOnline = now.Add(-time.Hour)

	earned := AccrueOffline(p, now, cfg)
	if earned != 3600 || p.Balance != 3600 {
		t.Fatalf("accrued %v, balance %v; want 3600 both", earned, p.Balance)
	}
	if !p.LastOnline.Equal(now) {
		t.Fatalf("lastOnline not stamped")
	}

	// a second accrual right after must credit nothing
	if again := AccrueOffline(p, now, cfg); again != 0 {
		t.Fatalf("double accrual credited %v", again)
	}
}

func mustBuy(t *testing.T, p *domain.Player, kind UpgradeKind, id int64, cfg *Config) {
	t.Helper()
	if _, err := BuyUpgrade(p, kind, id, cfg); err != nil {
		t.Fatalf("buy %s %d: %v", kind, id, err)
	}
}
