package repository

import (
	"context"
	"errors"
	"time"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

const playerColumns = `id, tg_id, COALESCE(username, ''), balance, click_power, income_per_second,
	 COALESCE(passive_upgrades, '[]'::jsonb), COALESCE(click_upgrades, '[]'::jsonb),
	 COALESCE(completed_tasks, '{}'), COALESCE(claimed_promocodes, '{}'),
	 referred_by, referral_count, referral_earnings, bombs, shields, shield_active_until,
	 daily_reward_streak, last_daily_claim, last_online, is_admin, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID,
		&p.TgID,
		&p.Username,
		&p.Balance,
		&p.ClickPower,
		&p.IncomePerSecond,
		&p.PassiveUpgrades,
		&p.ClickUpgrades,
		&p.CompletedTasks,
		&p.ClaimedPromos,
		&p.ReferredBy,
		&p.ReferralCount,
		&p.ReferralEarnings,
		&p.Bombs,
		&p.Shields,
		&p.ShieldUntil,
		&p.DailyStreak,
		&p.LastDailyClaim,
		&p.LastOnline,
		&p.IsAdmin,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tg_id = $1`, tgID)
	return scanPlayer(row)
}

// GetByTgIDForUpdate loads a player inside tx with a row lock. The lock is the
// per-account critical section: every economic read-modify-write happens under it.
func (r *UserRepository) GetByTgIDForUpdate(ctx context.Context, tx pgx.Tx, tgID int64) (*domain.Player, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tg_id = $1 FOR UPDATE`, tgID)
	return scanPlayer(row)
}

// Create inserts a fresh account. A concurrent first login for the same tg_id
// makes the loser's insert a no-op; the caller gets ErrDuplicate and refetches.
func (r *UserRepository) Create(ctx context.Context, p *domain.Player) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO players (tg_id, username, click_power, referred_by, is_admin, last_online)
		 VALUES ($1, $2, 1, $3, $4, NOW())
		 ON CONFLICT (tg_id) DO NOTHING
		 RETURNING id, created_at, last_online`,
		p.TgID, p.Username, p.ReferredBy, p.IsAdmin,
	).Scan(&p.ID, &p.CreatedAt, &p.LastOnline)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	return err
}

// SaveEconomy writes back every field the economy engine mutates. Must run in
// the same tx that locked the row.
func (r *UserRepository) SaveEconomy(ctx context.Context, tx pgx.Tx, p *domain.Player) error {
	_, err := tx.Exec(ctx,
		`UPDATE players SET
			balance = $2,
			click_power = $3,
			income_per_second = $4,
			passive_upgrades = $5,
			click_upgrades = $6,
			completed_tasks = $7,
			claimed_promocodes = $8,
			bombs = $9,
			shields = $10,
			shield_active_until = $11,
			daily_reward_streak = $12,
			last_daily_claim = $13,
			last_online = $14
		 WHERE id = $1`,
		p.ID, p.Balance, p.ClickPower, p.IncomePerSecond,
		p.PassiveUpgrades, p.ClickUpgrades, p.CompletedTasks, p.ClaimedPromos,
		p.Bombs, p.Shields, p.ShieldUntil, p.DailyStreak, p.LastDailyClaim, p.LastOnline,
	)
	return err
}

// UpdateUsername refreshes the display name seen in leaderboards.
func (r *UserRepository) UpdateUsername(ctx context.Context, playerID int64, username string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE players SET username = $1 WHERE id = $2`, username, playerID)
	return err
}

// CreditReferral rewards a referrer for one newly created account.
func (r *UserRepository) CreditReferral(ctx context.Context, tgID int64, amount float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE players SET
			balance = balance + $1,
			referral_count = referral_count + 1,
			referral_earnings = referral_earnings + $1
		 WHERE tg_id = $2`,
		amount, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BalanceEntry is one row of the balance leaderboard.
type BalanceEntry struct {
	Rank       int     `json:"rank"`
	TgID       int64   `json:"tg_id"`
	Username   string  `json:"username"`
	Balance    float64 `json:"balance"`
	IsTopThree bool    `json:"is_top_three"`
}

// TopByBalance returns the richest players. Ties break by tg id for
// deterministic ranks.
func (r *UserRepository) TopByBalance(ctx context.Context, limit int) ([]BalanceEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tg_id, COALESCE(username, ''), balance
		 FROM players
		 ORDER BY balance DESC, tg_id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []BalanceEntry
	rank := 1
	for rows.Next() {
		var e BalanceEntry
		if err := rows.Scan(&e.TgID, &e.Username, &e.Balance); err != nil {
			return nil, err
		}
		e.Rank = rank
		e.IsTopThree = rank <= 3
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// ReferralEntry is one row of the referral leaderboard.
type ReferralEntry struct {
	Rank             int     `json:"rank"`
	TgID             int64   `json:"tg_id"`
	Username         string  `json:"username"`
	ReferralCount    int64   `json:"referral_count"`
	ReferralEarnings float64 `json:"referral_earnings"`
	IsFirstPlace     bool    `json:"is_first_place"`
}

// TopByReferrals returns the best recruiters, ties broken by tg id.
func (r *UserRepository) TopByReferrals(ctx context.Context, limit int) ([]ReferralEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tg_id, COALESCE(username, ''), referral_count, referral_earnings
		 FROM players
		 ORDER BY referral_count DESC, tg_id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []ReferralEntry
	rank := 1
	for rows.Next() {
		var e ReferralEntry
		if err := rows.Scan(&e.TgID, &e.Username, &e.ReferralCount, &e.ReferralEarnings); err != nil {
			return nil, err
		}
		e.Rank = rank
		e.IsFirstPlace = rank == 1
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// Stats is the aggregate view for the admin dashboard.
type Stats struct {
	TotalPlayers  int64     `json:"total_players"`
	TotalBalance  float64   `json:"total_balance"`
	ActiveToday   int64     `json:"active_today"`
	NewestPlayer  time.Time `json:"newest_player"`
	TotalReferred int64     `json:"total_referred"`
}

func (r *UserRepository) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(balance), 0),
			COUNT(*) FILTER (WHERE last_online >= NOW() - INTERVAL '24 hours'),
			COALESCE(MAX(created_at), NOW()),
			COUNT(*) FILTER (WHERE referred_by IS NOT NULL)
		 FROM players`,
	).Scan(&s.TotalPlayers, &s.TotalBalance, &s.ActiveToday, &s.NewestPlayer, &s.TotalReferred)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
