package repository

import (
	"context"

	"clicker_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository records economy events as a ledger. Rows are written
// inside the same tx as the mutation they describe.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	return tx.QueryRow(ctx,
		`INSERT INTO transactions (player_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.PlayerID, t.Type, t.Amount, t.Meta,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TransactionRepository) GetByPlayerID(ctx context.Context, playerID int64, limit int) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, type, amount, COALESCE(meta, '{}'::jsonb), created_at
		 FROM transactions
		 WHERE player_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.Type, &t.Amount, &t.Meta, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}
