package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/game"
	"clicker_webapp/internal/logger"
	"clicker_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTargetNotFound     = errors.New("target not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrNotSubscribed      = errors.New("not subscribed to channel")
	ErrVerificationFailed = errors.New("subscription verification failed")
)

// SubscriptionChecker answers whether a player is a member of a channel. The
// call is external, slow and fallible; an error means "unknown", not "no".
type SubscriptionChecker interface {
	IsMember(ctx context.Context, channelID string, tgID int64) (bool, error)
}

// Notifier pushes attack outcomes to connected players. Implemented by the ws
// hub; a nil notifier is fine.
type Notifier interface {
	NotifyAttack(targetTgID int64, attackerName string, damage float64, absorbed bool)
}

// EconomyService validates and applies every balance/inventory-affecting
// intent. Each operation is one transaction scoped to a single player row,
// except bombs, which lock attacker and target together.
type EconomyService struct {
	db       *pgxpool.Pool
	users    *repository.UserRepository
	tasks    *repository.TaskRepository
	promos   *repository.PromoRepository
	ledger   *repository.TransactionRepository
	cfg      *game.Config
	subs     SubscriptionChecker
	notifier Notifier
	devMode  bool

	// injectable for tests
	now  func() time.Time
	roll func() float64
}

func NewEconomyService(db *pgxpool.Pool, cfg *game.Config, subs SubscriptionChecker, devMode bool) *EconomyService {
	return &EconomyService{
		db:      db,
		users:   repository.NewUserRepository(db),
		tasks:   repository.NewTaskRepository(db),
		promos:  repository.NewPromoRepository(db),
		ledger:  repository.NewTransactionRepository(db),
		cfg:     cfg,
		subs:    subs,
		devMode: devMode,
		now:     time.Now,
		roll:    rand.Float64,
	}
}

// SetNotifier attaches the push hub after construction.
func (s *EconomyService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Config exposes the engine configuration to handlers (catalog quoting).
func (s *EconomyService) Config() *game.Config {
	return s.cfg
}

// SessionResult is the snapshot returned on session start.
type SessionResult struct {
	Player          *domain.Player
	OfflineEarnings float64
	Created         bool
}

// InitSession is the idempotent create-or-fetch entry point. New accounts get
// their referral attributed exactly once; returning accounts accrue offline
// earnings exactly once per reconnect.
func (s *EconomyService) InitSession(ctx context.Context, tgID int64, username string, referrerTgID *int64, isAdmin bool) (*SessionResult, error) {
	p, err := s.users.GetByTgID(ctx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		res, createErr := s.createAccount(ctx, tgID, username, referrerTgID, isAdmin)
		if !errors.Is(createErr, repository.ErrDuplicate) {
			return res, createErr
		}
		// lost a concurrent first-login race, the account exists now
		p, err = s.users.GetByTgID(ctx, tgID)
	}
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err = s.users.GetByTgIDForUpdate(ctx, tx, tgID)
	if err != nil {
		return nil, err
	}

	earned := game.AccrueOffline(p, s.now(), s.cfg)
	if err := s.users.SaveEconomy(ctx, tx, p); err != nil {
		return nil, err
	}
	if earned > 0 {
		if err := s.record(ctx, tx, p.ID, "offline_earnings", earned, nil); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if username != "" && username != p.Username {
		if err := s.users.UpdateUsername(ctx, p.ID, username); err != nil {
			logger.Warn("failed to refresh username", "tg_id", tgID, "error", err)
		} else {
			p.Username = username
		}
	}

	return &SessionResult{Player: p, OfflineEarnings: earned}, nil
}

func (s *EconomyService) createAccount(ctx context.Context, tgID int64, username string, referrerTgID *int64, isAdmin bool) (*SessionResult, error) {
	p := &domain.Player{
		TgID:       tgID,
		Username:   username,
		ClickPower: 1,
		IsAdmin:    isAdmin,
	}
	// self-referrals are dropped, the field is immutable after creation
	if referrerTgID != nil && *referrerTgID != tgID {
		p.ReferredBy = referrerTgID
	}

	if err := s.users.Create(ctx, p); err != nil {
		return nil, err
	}

	if p.ReferredBy != nil {
		if err := s.users.CreditReferral(ctx, *p.ReferredBy, s.cfg.ReferralReward); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logger.Warn("referrer not found", "referrer_tg_id", *p.ReferredBy, "new_tg_id", tgID)
			} else {
				return nil, err
			}
		}
	}

	return &SessionResult{Player: p, Created: true}, nil
}

// Click resolves a click batch: credits clickPower×clicks and rolls one bonus
// drop for the whole batch.
func (s *EconomyService) Click(ctx context.Context, tgID int64, clicks int64) (*domain.Player, game.ClickResult, error) {
	var res game.ClickResult
	p, err := s.withPlayer(ctx, tgID, func(p *domain.Player) error {
		res = game.ApplyClick(p, clicks, s.roll(), s.now(), s.cfg)
		return nil
	}, nil)
	return p, res, err
}

// BuyUpgrade purchases one level of a catalog upgrade and recomputes the
// derived rate from all owned levels.
func (s *EconomyService) BuyUpgrade(ctx context.Context, tgID int64, kind game.UpgradeKind, upgradeID int64) (*domain.Player, game.PurchaseResult, error) {
	var res game.PurchaseResult
	p, err := s.withPlayer(ctx, tgID, func(p *domain.Player) error {
		var err error
		res, err = game.BuyUpgrade(p, kind, upgradeID, s.cfg)
		return err
	}, func(p *domain.Player) *domain.Transaction {
		return &domain.Transaction{
			PlayerID: p.ID,
			Type:     "upgrade_purchase",
			Amount:   -res.Price,
			Meta:     map[string]interface{}{"kind": string(kind), "upgrade_id": upgradeID, "new_level": res.NewLevel},
		}
	})
	return p, res, err
}

// ActivateShield consumes a shield and arms a fresh protection window.
func (s *EconomyService) ActivateShield(ctx context.Context, tgID int64) (*domain.Player, error) {
	return s.withPlayer(ctx, tgID, func(p *domain.Player) error {
		return game.ActivateShield(p, s.now(), s.cfg)
	}, nil)
}

// ClaimDaily grants the next entry of the cycling daily reward table.
func (s *EconomyService) ClaimDaily(ctx context.Context, tgID int64) (*domain.Player, game.DailyReward, error) {
	var reward game.DailyReward
	p, err := s.withPlayer(ctx, tgID, func(p *domain.Player) error {
		var err error
		reward, err = game.ClaimDaily(p, s.now(), s.cfg)
		return err
	}, func(p *domain.Player) *domain.Transaction {
		return &domain.Transaction{
			PlayerID: p.ID,
			Type:     "daily_reward",
			Amount:   rewardCoins(reward),
			Meta:     map[string]interface{}{"kind": string(reward.Kind), "amount": reward.Amount, "streak": p.DailyStreak},
		}
	})
	return p, reward, err
}

// DailyStatus reports the streak (with projected reset), last claim day and
// the reward table.
func (s *EconomyService) DailyStatus(ctx context.Context, tgID int64) (*domain.Player, int64, error) {
	p, err := s.users.GetByTgID(ctx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, ErrPlayerNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return p, game.EffectiveStreak(p, s.now()), nil
}

// RedeemPromo grants a code's typed reward once per account. The player row
// and the code's use counter move in one transaction: no reward without a
// counted use and vice versa.
func (s *EconomyService) RedeemPromo(ctx context.Context, tgID int64, code string) (*domain.Player, game.DailyReward, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, game.DailyReward{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := s.users.GetByTgIDForUpdate(ctx, tx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, game.DailyReward{}, ErrPlayerNotFound
	}
	if err != nil {
		return nil, game.DailyReward{}, err
	}

	promo, err := s.promos.GetByCodeForUpdate(ctx, tx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, game.DailyReward{}, ErrPromoNotFound
	}
	if err != nil {
		return nil, game.DailyReward{}, err
	}

	reward, err := game.RedeemPromo(p, promo, s.now())
	if err != nil {
		return nil, game.DailyReward{}, err
	}

	if err := s.users.SaveEconomy(ctx, tx, p); err != nil {
		return nil, game.DailyReward{}, err
	}
	if err := s.promos.SetUses(ctx, tx, promo.Code, promo.CurrentUses); err != nil {
		return nil, game.DailyReward{}, err
	}
	if err := s.record(ctx, tx, p.ID, "promo_redeem", rewardCoins(reward), map[string]interface{}{
		"code": promo.Code, "kind": string(reward.Kind), "amount": reward.Amount,
	}); err != nil {
		return nil, game.DailyReward{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, game.DailyReward{}, err
	}
	return p, reward, nil
}

// TaskView is a task decorated with the player's completion flag.
type TaskView struct {
	Task      *domain.Task
	Completed bool
}

func (s *EconomyService) ListTasks(ctx context.Context, tgID int64) ([]TaskView, error) {
	p, err := s.users.GetByTgID(ctx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, Completed: p.HasCompletedTask(t.ID)})
	}
	return views, nil
}

// CompleteTask verifies channel membership through the external oracle and
// credits the reward once. The external call runs outside any row lock; a
// checker failure is retryable, never a grant or a permanent denial.
func (s *EconomyService) CompleteTask(ctx context.Context, tgID int64, taskID int64) (*domain.Player, float64, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, ErrTaskNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if !task.IsActive {
		return nil, 0, ErrTaskNotFound
	}

	// cheap pre-check so an already-completed task never hits the oracle
	p, err := s.users.GetByTgID(ctx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, ErrPlayerNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	if p.HasCompletedTask(task.ID) {
		return nil, 0, game.ErrTaskCompleted
	}

	if s.devMode {
		logger.Warn("dev mode: skipping subscription check", "task_id", task.ID, "tg_id", tgID)
	} else {
		member, err := s.subs.IsMember(ctx, task.ChannelID, tgID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		if !member {
			return nil, 0, ErrNotSubscribed
		}
	}

	p, err = s.withPlayer(ctx, tgID, func(p *domain.Player) error {
		return game.CompleteTask(p, task)
	}, func(p *domain.Player) *domain.Transaction {
		return &domain.Transaction{
			PlayerID: p.ID,
			Type:     "task_reward",
			Amount:   task.Reward,
			Meta:     map[string]interface{}{"task_id": task.ID},
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return p, task.Reward, nil
}

// BombOutcome is the result of a bomb attack as seen by the attacker.
type BombOutcome struct {
	Attacker       *domain.Player
	TargetUsername string
	Absorbed       bool
	Damage         float64
}

// UseBomb spends one bomb against another player. Both rows are locked in
// ascending tg id order so concurrent cross-attacks cannot deadlock, and both
// are persisted in one transaction; a half-applied attack is never observable.
func (s *EconomyService) UseBomb(ctx context.Context, attackerTgID, targetTgID int64) (*BombOutcome, error) {
	if attackerTgID == targetTgID {
		return nil, game.ErrSelfTarget
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	firstID, secondID := attackerTgID, targetTgID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	lockOne := func(tgID int64, notFound error) (*domain.Player, error) {
		p, err := s.users.GetByTgIDForUpdate(ctx, tx, tgID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return p, err
	}

	var first, second *domain.Player
	if first, err = lockOne(firstID, notFoundFor(firstID, attackerTgID)); err != nil {
		return nil, err
	}
	if second, err = lockOne(secondID, notFoundFor(secondID, attackerTgID)); err != nil {
		return nil, err
	}

	attacker, target := first, second
	if attacker.TgID != attackerTgID {
		attacker, target = second, first
	}

	res, err := game.ResolveBomb(attacker, target, s.now(), s.cfg)
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveEconomy(ctx, tx, attacker); err != nil {
		return nil, err
	}
	if err := s.users.SaveEconomy(ctx, tx, target); err != nil {
		return nil, err
	}
	if err := s.record(ctx, tx, attacker.ID, "bomb_attack", 0, map[string]interface{}{
		"target_tg_id": target.TgID, "absorbed": res.Absorbed, "damage": res.Damage,
	}); err != nil {
		return nil, err
	}
	if res.Damage > 0 {
		if err := s.record(ctx, tx, target.ID, "bomb_damage", -res.Damage, map[string]interface{}{
			"attacker_tg_id": attacker.TgID,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAttack(target.TgID, attacker.Username, res.Damage, res.Absorbed)
	}

	return &BombOutcome{
		Attacker:       attacker,
		TargetUsername: target.Username,
		Absorbed:       res.Absorbed,
		Damage:         res.Damage,
	}, nil
}

func notFoundFor(lockedTgID, attackerTgID int64) error {
	if lockedTgID == attackerTgID {
		return ErrPlayerNotFound
	}
	return ErrTargetNotFound
}

// withPlayer runs mutate on a row-locked player and persists the outcome. Any
// error leaves the row untouched. ledgerFn, when non-nil, adds a transaction
// record to the same tx.
func (s *EconomyService) withPlayer(ctx context.Context, tgID int64, mutate func(*domain.Player) error, ledgerFn func(*domain.Player) *domain.Transaction) (*domain.Player, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := s.users.GetByTgIDForUpdate(ctx, tx, tgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := mutate(p); err != nil {
		return nil, err
	}

	if err := s.users.SaveEconomy(ctx, tx, p); err != nil {
		return nil, err
	}
	if ledgerFn != nil {
		if t := ledgerFn(p); t != nil {
			if err := s.ledger.CreateWithTx(ctx, tx, t); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *EconomyService) record(ctx context.Context, tx pgx.Tx, playerID int64, txType string, amount float64, meta map[string]interface{}) error {
	return s.ledger.CreateWithTx(ctx, tx, &domain.Transaction{
		PlayerID: playerID,
		Type:     txType,
		Amount:   amount,
		Meta:     meta,
	})
}

func rewardCoins(r game.DailyReward) float64 {
	if r.Kind == domain.RewardCoins {
		return r.Amount
	}
	return 0
}
