package repository

import (
	"context"
	"errors"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PromoRepository struct {
	db *pgxpool.Pool
}

func NewPromoRepository(db *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoColumns = `code, reward_kind, reward_amount, max_uses, current_uses,
	 is_active, expires_at, created_by, created_at`

func scanPromo(row pgx.Row) (*domain.PromoCode, error) {
	var p domain.PromoCode
	err := row.Scan(&p.Code, &p.RewardKind, &p.RewardAmount, &p.MaxUses, &p.CurrentUses,
		&p.IsActive, &p.ExpiresAt, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByCodeForUpdate locks the code row so the use counter cannot race past
// its cap under concurrent redemptions.
func (r *PromoRepository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*domain.PromoCode, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1 FOR UPDATE`,
		domain.NormalizeCode(code))
	return scanPromo(row)
}

// SetUses writes the bumped counter inside the redeeming tx.
func (r *PromoRepository) SetUses(ctx context.Context, tx pgx.Tx, code string, uses int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE promo_codes SET current_uses = $2 WHERE code = $1`, code, uses)
	return err
}

func (r *PromoRepository) GetAll(ctx context.Context) ([]*domain.PromoCode, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+promoColumns+` FROM promo_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*domain.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, p)
	}
	return codes, rows.Err()
}

func (r *PromoRepository) Create(ctx context.Context, p *domain.PromoCode) error {
	p.Code = domain.NormalizeCode(p.Code)
	return r.db.QueryRow(ctx,
		`INSERT INTO promo_codes (code, reward_kind, reward_amount, max_uses, is_active, expires_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.Code, p.RewardKind, p.RewardAmount, p.MaxUses, p.IsActive, p.ExpiresAt, p.CreatedBy,
	).Scan(&p.CreatedAt)
}

func (r *PromoRepository) Update(ctx context.Context, p *domain.PromoCode) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET reward_kind = $2, reward_amount = $3, max_uses = $4,
			is_active = $5, expires_at = $6
		 WHERE code = $1`,
		domain.NormalizeCode(p.Code), p.RewardKind, p.RewardAmount, p.MaxUses, p.IsActive, p.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM promo_codes WHERE code = $1`, domain.NormalizeCode(code))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
