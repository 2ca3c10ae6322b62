package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clicker_webapp/internal/bot"
	"clicker_webapp/internal/config"
	"clicker_webapp/internal/db"
	httpServer "clicker_webapp/internal/http"
	"clicker_webapp/internal/http/middleware"
	"clicker_webapp/internal/logger"
	"clicker_webapp/internal/service"
	"clicker_webapp/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	subs, err := telegram.NewSubscriptionService(cfg.BotToken, 5*time.Second)
	if err != nil {
		if cfg.DevMode {
			logger.Warn("subscription service unavailable, dev mode continues without it", "error", err)
		} else {
			logger.Fatal("failed to init subscription service", "error", err)
		}
	}

	economy := service.NewEconomyService(dbPool, cfg.Game(), subs, cfg.DevMode)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := httpServer.RegisterRoutes(r, dbPool, cfg, economy, version)
	economy.SetNotifier(hub)

	var gameBot *bot.GameBot
	if cfg.BotEnabled {
		gameBot, err = bot.NewGameBot(cfg.BotToken, cfg.WebAppURL, cfg.BotUsername)
		if err != nil {
			logger.Fatal("failed to init game bot", "error", err)
		}
		go gameBot.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	if gameBot != nil {
		gameBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
