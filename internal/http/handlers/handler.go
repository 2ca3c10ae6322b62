package handlers

import (
	"errors"
	"net/http"
	"time"

	"clicker_webapp/internal/config"
	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/game"
	"clicker_webapp/internal/repository"
	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB         *pgxpool.Pool
	Cfg        *config.Config
	Economy    *service.EconomyService
	UserRepo   *repository.UserRepository
	TaskRepo   *repository.TaskRepository
	PromoRepo  *repository.PromoRepository
	LedgerRepo *repository.TransactionRepository
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config, economy *service.EconomyService) *Handler {
	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Economy:    economy,
		UserRepo:   repository.NewUserRepository(db),
		TaskRepo:   repository.NewTaskRepository(db),
		PromoRepo:  repository.NewPromoRepository(db),
		LedgerRepo: repository.NewTransactionRepository(db),
	}
}

// getTgID извлекает tg_id из контекста Gin
func getTgID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	val, ok := c.Get("tg_id")
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// playerJSON is the snapshot shape shared by every endpoint that returns the
// player's state.
func playerJSON(p *domain.Player) gin.H {
	var shieldUntil *string
	if p.ShieldUntil != nil {
		s := p.ShieldUntil.UTC().Format(time.RFC3339)
		shieldUntil = &s
	}

	return gin.H{
		"tg_id":             p.TgID,
		"username":          p.Username,
		"balance":           p.Balance,
		"click_power":       p.ClickPower,
		"income_per_second": p.IncomePerSecond,
		"passive_upgrades":  p.PassiveUpgrades,
		"click_upgrades":    p.ClickUpgrades,
		"bombs":             p.Bombs,
		"shields":           p.Shields,
		"shield_until":      shieldUntil,
		"shield_active":     p.ShieldActive(time.Now()),
		"daily_streak":      p.DailyStreak,
		"referral_count":    p.ReferralCount,
		"referral_earnings": p.ReferralEarnings,
		"is_admin":          p.IsAdmin,
	}
}

// respondError maps service and engine errors onto HTTP statuses. Unknown
// errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
	case errors.Is(err, service.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "target not found"})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrPromoNotFound), errors.Is(err, game.ErrPromoInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid promo code"})
	case errors.Is(err, game.ErrUpgradeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "upgrade not found"})
	case errors.Is(err, game.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
	case errors.Is(err, game.ErrNoBombs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no bombs"})
	case errors.Is(err, game.ErrNoShields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no shields"})
	case errors.Is(err, game.ErrSelfTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot bomb yourself"})
	case errors.Is(err, game.ErrTaskCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "task already completed"})
	case errors.Is(err, game.ErrPromoClaimed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "promo code already claimed"})
	case errors.Is(err, game.ErrDailyAlreadyClaimed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "daily reward already claimed"})
	case errors.Is(err, service.ErrNotSubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not subscribed to channel"})
	case errors.Is(err, service.ErrVerificationFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "subscription check unavailable, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
