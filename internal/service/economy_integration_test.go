package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"clicker_webapp/internal/game"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration-style test: runs only if DATABASE_URL env is set.
func TestEconomyFlowIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile("../../internal/migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	cfg := &game.Config{
		BombDropChance:   0.001,
		ShieldDropChance: 0.001,
		BombDamage:       300_000,
		ShieldDuration:   3 * time.Hour,
		ReferralReward:   1_000_000,
		OfflineCap:       24 * time.Hour,
		DailyRewards:     game.DefaultDailyRewards(),
		Catalog:          game.DefaultCatalog(),
	}

	svc := NewEconomyService(pool, cfg, nil, true)
	svc.roll = func() float64 { return 0.5 } // no bonus drops

	base := time.Now().UnixNano()
	tgA, tgB := base, base+1
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM transactions WHERE player_id IN (SELECT id FROM players WHERE tg_id IN ($1, $2))`, tgA, tgB)
		pool.Exec(ctx, `DELETE FROM players WHERE tg_id IN ($1, $2)`, tgA, tgB)
	})

	// first contact creates the account
	sess, err := svc.InitSession(ctx, tgA, "alice", nil, false)
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if !sess.Created || sess.Player.ClickPower != 1 {
		t.Fatalf("unexpected session: created=%v power=%d", sess.Created, sess.Player.ClickPower)
	}

	// referral attribution on the second account
	sessB, err := svc.InitSession(ctx, tgB, "bob", &tgA, false)
	if err != nil {
		t.Fatalf("InitSession referred: %v", err)
	}
	if !sessB.Created {
		t.Fatalf("expected new account")
	}
	a, _, err := svc.DailyStatus(ctx, tgA)
	if err != nil {
		t.Fatalf("DailyStatus: %v", err)
	}
	if a.ReferralCount != 1 || a.Balance != cfg.ReferralReward {
		t.Fatalf("referral not credited: count=%d balance=%f", a.ReferralCount, a.Balance)
	}

	// clicks credit clickPower each
	p, res, err := svc.Click(ctx, tgB, 200)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if res.CoinsEarned != 200 || p.Balance != 200 {
		t.Fatalf("click outcome: earned=%f balance=%f", res.CoinsEarned, p.Balance)
	}

	// cheapest passive upgrade costs 100 at level zero
	p, purchase, err := svc.BuyUpgrade(ctx, tgB, game.UpgradePassive, 1)
	if err != nil {
		t.Fatalf("BuyUpgrade: %v", err)
	}
	if purchase.NewLevel != 1 || p.Balance != 100 || p.IncomePerSecond == 0 {
		t.Fatalf("purchase outcome: level=%d balance=%f income=%f", purchase.NewLevel, p.Balance, p.IncomePerSecond)
	}

	// no bombs in inventory yet
	if _, err := svc.UseBomb(ctx, tgB, tgA); !errors.Is(err, game.ErrNoBombs) {
		t.Fatalf("expected ErrNoBombs, got %v", err)
	}

	// daily claim works once per day
	if _, _, err := svc.ClaimDaily(ctx, tgB); err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if _, _, err := svc.ClaimDaily(ctx, tgB); !errors.Is(err, game.ErrDailyAlreadyClaimed) {
		t.Fatalf("expected ErrDailyAlreadyClaimed, got %v", err)
	}
}

// Two simultaneous first logins for the same tg_id must both succeed, with
// exactly one of them creating the row.
func TestConcurrentFirstLoginIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile("../../internal/migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	cfg := &game.Config{
		OfflineCap:   24 * time.Hour,
		DailyRewards: game.DefaultDailyRewards(),
		Catalog:      game.DefaultCatalog(),
	}
	svc := NewEconomyService(pool, cfg, nil, true)

	tgID := time.Now().UnixNano()
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM transactions WHERE player_id IN (SELECT id FROM players WHERE tg_id = $1)`, tgID)
		pool.Exec(ctx, `DELETE FROM players WHERE tg_id = $1`, tgID)
	})

	const logins = 4
	results := make(chan *SessionResult, logins)
	errs := make(chan error, logins)
	for i := 0; i < logins; i++ {
		go func() {
			sess, err := svc.InitSession(ctx, tgID, "carol", nil, false)
			results <- sess
			errs <- err
		}()
	}

	created := 0
	for i := 0; i < logins; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("InitSession: %v", err)
		}
		if sess := <-results; sess.Created {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("created = %d, want exactly 1", created)
	}

	var rows int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE tg_id = $1`, tgID).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("player rows = %d, want 1", rows)
	}
}
