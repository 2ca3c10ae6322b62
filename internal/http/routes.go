package http

import (
	"clicker_webapp/internal/config"
	"clicker_webapp/internal/http/handlers"
	"clicker_webapp/internal/http/middleware"
	"clicker_webapp/internal/service"
	"clicker_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires every endpoint. Returns the push hub so main can hand
// it to the economy service.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, economy *service.EconomyService, version string) *ws.Hub {
	h := handlers.NewHandler(db, cfg, economy)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth
	v1.POST("/auth", h.Auth)

	// Player state and clicks
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/history", middleware.JWT(), h.History)
	clickRL := middleware.ClickRateLimit(cfg.ClickRateLimit, cfg.ClickRateWindow)
	v1.POST("/game/click", middleware.JWT(), clickRL, h.Click)

	// Shop
	v1.GET("/upgrades/passive", middleware.JWT(), h.ListPassiveUpgrades)
	v1.GET("/upgrades/click", middleware.JWT(), h.ListClickUpgrades)
	v1.POST("/upgrades/:kind/:id/buy", middleware.JWT(), h.BuyUpgrade)

	// Items
	v1.POST("/bomb", middleware.JWT(), h.UseBomb)
	v1.POST("/shield", middleware.JWT(), h.ActivateShield)

	// Daily rewards
	v1.GET("/daily-rewards", middleware.JWT(), h.DailyRewards)
	v1.POST("/daily-rewards/claim", middleware.JWT(), h.ClaimDailyReward)

	// Promo codes
	v1.POST("/promo/activate", middleware.JWT(), h.ActivatePromo)

	// Channel tasks
	v1.GET("/tasks", middleware.JWT(), h.ListTasks)
	v1.POST("/tasks/:id/check", middleware.JWT(), h.CheckTask)

	// Leaderboards
	v1.GET("/leaderboard/balance", h.BalanceLeaderboard)
	v1.GET("/leaderboard/referrals", h.ReferralLeaderboard)

	// Admin
	admin := v1.Group("/admin")
	admin.Use(middleware.JWT())
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/tasks", h.AdminListTasks)
		admin.POST("/tasks", h.AdminCreateTask)
		admin.PATCH("/tasks/:id", h.AdminUpdateTask)
		admin.DELETE("/tasks/:id", h.AdminDeleteTask)
		admin.GET("/promo-codes", h.AdminListPromoCodes)
		admin.POST("/promo-codes", h.AdminCreatePromoCode)
		admin.PATCH("/promo-codes/:code", h.AdminUpdatePromoCode)
		admin.DELETE("/promo-codes/:code", h.AdminDeletePromoCode)
	}

	// WebSocket push (bomb notifications)
	hub := ws.NewHub()
	r.GET("/ws", h.WS(hub))

	return hub
}
