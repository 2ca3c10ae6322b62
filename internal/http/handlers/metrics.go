package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	clicksProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "game_clicks_processed_total",
		Help: "Total clicks credited to players",
	})
	bonusDrops = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "game_bonus_drops_total",
		Help: "Total bonus items dropped from clicks",
	}, []string{"kind"})
	upgradesPurchased = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "game_upgrades_purchased_total",
		Help: "Total upgrade levels purchased",
	}, []string{"kind"})
	bombsUsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "game_bombs_used_total",
		Help: "Total bomb attacks resolved",
	}, []string{"outcome"})
	promoRedeemed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "game_promo_redeemed_total",
		Help: "Total promo codes redeemed",
	})
)

func init() {
	prometheus.MustRegister(clicksProcessed, bonusDrops, upgradesPurchased, bombsUsed, promoRedeemed)
}
