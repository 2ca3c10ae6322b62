package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"clicker_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

// requireAdmin resolves the caller and aborts with 403 unless they carry the
// admin flag. Returns the caller for audit fields.
func (h *Handler) requireAdmin(c *gin.Context) (*domain.Player, bool) {
	tgID, ok := getTgID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	p, err := h.UserRepo.GetByTgID(c.Request.Context(), tgID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	if !p.IsAdmin && !h.Cfg.IsAdminTgID(p.TgID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return nil, false
	}
	return p, true
}

// AdminStats reports platform-wide aggregates.
func (h *Handler) AdminStats(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	stats, err := h.UserRepo.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

type TaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ChannelLink string  `json:"channel_link"`
	ChannelID   string  `json:"channel_id"`
	Reward      float64 `json:"reward"`
	IsActive    *bool   `json:"is_active"`
}

func (h *Handler) AdminListTasks(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	tasks, err := h.TaskRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) AdminCreateTask(c *gin.Context) {
	admin, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Title == "" || req.ChannelID == "" || req.Reward <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, channel_id and positive reward required"})
		return
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		ChannelLink: req.ChannelLink,
		ChannelID:   req.ChannelID,
		Reward:      req.Reward,
		IsActive:    true,
		CreatedBy:   admin.TgID,
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := h.TaskRepo.Create(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *Handler) AdminUpdateTask(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.TaskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.ChannelLink != "" {
		task.ChannelLink = req.ChannelLink
	}
	if req.ChannelID != "" {
		task.ChannelID = req.ChannelID
	}
	if req.Reward > 0 {
		task.Reward = req.Reward
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := h.TaskRepo.Update(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *Handler) AdminDeleteTask(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.TaskRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type PromoCodeRequest struct {
	Code         string  `json:"code"`
	RewardKind   string  `json:"reward_kind"`
	RewardAmount float64 `json:"reward_amount"`
	MaxUses      *int64  `json:"max_uses"`
	ExpiresAt    *string `json:"expires_at"` // RFC3339
	IsActive     *bool   `json:"is_active"`
}

func (h *Handler) AdminListPromoCodes(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	promos, err := h.PromoRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_codes": promos})
}

func (h *Handler) AdminCreatePromoCode(c *gin.Context) {
	admin, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	var req PromoCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	kind := domain.RewardKind(req.RewardKind)
	if kind != domain.RewardCoins && kind != domain.RewardBomb && kind != domain.RewardShield {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reward_kind must be coins, bomb or shield"})
		return
	}
	if req.Code == "" || req.RewardAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and positive reward_amount required"})
		return
	}
	if !wholeItemAmount(kind, req.RewardAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bomb and shield rewards must be whole numbers"})
		return
	}

	promo := &domain.PromoCode{
		Code:         domain.NormalizeCode(req.Code),
		RewardKind:   kind,
		RewardAmount: req.RewardAmount,
		MaxUses:      req.MaxUses,
		IsActive:     true,
		CreatedBy:    admin.TgID,
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
			return
		}
		promo.ExpiresAt = &t
	}

	if err := h.PromoRepo.Create(c.Request.Context(), promo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"promo_code": promo})
}

func (h *Handler) AdminUpdatePromoCode(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	code := domain.NormalizeCode(c.Param("code"))

	var req PromoCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	promos, err := h.PromoRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	var promo *domain.PromoCode
	for _, p := range promos {
		if p.Code == code {
			promo = p
			break
		}
	}
	if promo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "promo code not found"})
		return
	}

	if req.RewardAmount > 0 {
		promo.RewardAmount = req.RewardAmount
	}
	if req.RewardKind != "" {
		kind := domain.RewardKind(req.RewardKind)
		if kind != domain.RewardCoins && kind != domain.RewardBomb && kind != domain.RewardShield {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reward_kind must be coins, bomb or shield"})
			return
		}
		promo.RewardKind = kind
	}
	if req.MaxUses != nil {
		promo.MaxUses = req.MaxUses
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
			return
		}
		promo.ExpiresAt = &t
	}

	if !wholeItemAmount(promo.RewardKind, promo.RewardAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bomb and shield rewards must be whole numbers"})
		return
	}

	if err := h.PromoRepo.Update(c.Request.Context(), promo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_code": promo})
}

func (h *Handler) AdminDeletePromoCode(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	code := domain.NormalizeCode(c.Param("code"))
	if err := h.PromoRepo.Delete(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": code})
}

// wholeItemAmount rejects fractional amounts for counted item rewards.
func wholeItemAmount(kind domain.RewardKind, amount float64) bool {
	if kind == domain.RewardCoins {
		return true
	}
	return amount == math.Trunc(amount)
}
