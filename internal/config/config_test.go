package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_IDS", "100, 200,abc,300")

	cfg := Load()

	if cfg.AppPort != "8080" {
		t.Fatalf("port = %s; want 8080", cfg.AppPort)
	}
	if cfg.BombDropChance != 0.001 || cfg.ShieldDropChance != 0.001 {
		t.Fatalf("drop chances = %v/%v; want 0.001/0.001", cfg.BombDropChance, cfg.ShieldDropChance)
	}
	if cfg.BombDamage != 300_000 {
		t.Fatalf("bomb damage = %v; want 300000", cfg.BombDamage)
	}
	if cfg.ShieldDuration != 3*time.Hour {
		t.Fatalf("shield duration = %v; want 3h", cfg.ShieldDuration)
	}
	if cfg.OfflineCap != 24*time.Hour {
		t.Fatalf("offline cap = %v; want 24h", cfg.OfflineCap)
	}
	if len(cfg.AdminTelegramIDs) != 3 {
		t.Fatalf("admin ids = %v; want 3 parsed", cfg.AdminTelegramIDs)
	}
	if !cfg.IsAdminTgID(200) || cfg.IsAdminTgID(999) {
		t.Fatalf("IsAdminTgID misbehaves: %v", cfg.AdminTelegramIDs)
	}
	if len(cfg.DailyRewards) != 7 {
		t.Fatalf("daily rewards = %d entries; want 7", len(cfg.DailyRewards))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("BOMB_DROP_CHANCE", "0.05")
	t.Setenv("SHIELD_DURATION_HOURS", "6")
	t.Setenv("REFERRAL_REWARD", "500")
	t.Setenv("CLICK_RATE_LIMIT", "30")

	cfg := Load()

	if cfg.BombDropChance != 0.05 {
		t.Fatalf("bomb drop chance = %v; want 0.05", cfg.BombDropChance)
	}
	if cfg.ShieldDuration != 6*time.Hour {
		t.Fatalf("shield duration = %v; want 6h", cfg.ShieldDuration)
	}
	if cfg.ReferralReward != 500 {
		t.Fatalf("referral reward = %v; want 500", cfg.ReferralReward)
	}
	if cfg.ClickRateLimit != 30 {
		t.Fatalf("click rate limit = %d; want 30", cfg.ClickRateLimit)
	}

	gameCfg := cfg.Game()
	if gameCfg.BombDropChance != 0.05 || gameCfg.Catalog == nil {
		t.Fatalf("engine config not derived from app config: %+v", gameCfg)
	}
}
