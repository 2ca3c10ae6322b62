package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"clicker_webapp/internal/game"
	"clicker_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort          string
	DatabaseURL      string
	BotToken         string
	BotUsername      string
	WebAppURL        string
	JWTSecret        string
	AdminTelegramIDs []int64 // tg id админов через запятую в env
	BotEnabled       bool
	DevMode          bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit    int
	APIRateWindow   time.Duration
	ClickRateLimit  int
	ClickRateWindow time.Duration

	// Economy tunables
	BombDropChance   float64
	ShieldDropChance float64
	BombDamage       float64
	ShieldDuration   time.Duration
	ReferralReward   float64
	OfflineCap       time.Duration

	Catalog      *game.Catalog
	DailyRewards []game.DailyReward
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "CoinClickerBot"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var adminIDs []int64
	if s := os.Getenv("ADMIN_TELEGRAM_IDS"); s != "" {
		for _, idStr := range strings.Split(s, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	devMode := os.Getenv("DEV_MODE") == "true"
	if devMode && os.Getenv("GIN_MODE") == "release" {
		// verification bypass must never reach production
		logger.Fatal("DEV_MODE cannot be enabled with GIN_MODE=release")
	}

	catalog := game.DefaultCatalog()
	dailyRewards := game.DefaultDailyRewards()
	if path := os.Getenv("CATALOG_FILE"); path != "" {
		var err error
		catalog, dailyRewards, err = game.LoadCatalogFile(path)
		if err != nil {
			logger.Fatal("failed to load catalog file", "path", path, "error", err)
		}
		logger.Info("catalog loaded from file", "path", path)
	}

	return &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		BotToken:         botToken,
		BotUsername:      botUsername,
		WebAppURL:        os.Getenv("WEB_APP_URL"),
		JWTSecret:        jwtSecret,
		AdminTelegramIDs: adminIDs,
		BotEnabled:       os.Getenv("BOT_ENABLED") == "true",
		DevMode:          devMode,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		APIRateLimit:    envInt("API_RATE_LIMIT", 60),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		ClickRateLimit:  envInt("CLICK_RATE_LIMIT", 120),
		ClickRateWindow: envSeconds("CLICK_RATE_WINDOW_SECONDS", time.Minute),

		BombDropChance:   envFloat("BOMB_DROP_CHANCE", 0.001),
		ShieldDropChance: envFloat("SHIELD_DROP_CHANCE", 0.001),
		BombDamage:       envFloat("BOMB_DAMAGE", 300_000),
		ShieldDuration:   envHours("SHIELD_DURATION_HOURS", 3*time.Hour),
		ReferralReward:   envFloat("REFERRAL_REWARD", 1_000_000),
		OfflineCap:       envHours("OFFLINE_EARNINGS_CAP_HOURS", 24*time.Hour),

		Catalog:      catalog,
		DailyRewards: dailyRewards,
	}
}

// Game returns the engine configuration derived from the app config.
func (c *Config) Game() *game.Config {
	return &game.Config{
		BombDropChance:   c.BombDropChance,
		ShieldDropChance: c.ShieldDropChance,
		BombDamage:       c.BombDamage,
		ShieldDuration:   c.ShieldDuration,
		ReferralReward:   c.ReferralReward,
		OfflineCap:       c.OfflineCap,
		DailyRewards:     c.DailyRewards,
		Catalog:          c.Catalog,
	}
}

// IsAdminTgID reports whether the tg id is listed as an admin.
func (c *Config) IsAdminTgID(tgID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == tgID {
			return true
		}
	}
	return false
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func envHours(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return def
}
