package repository

import (
	"context"
	"time"

	"rewards_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TradeRepository struct {
	db *pgxpool.Pool
}

func NewTradeRepository(db *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{db: db}
}

// GetByUserID returns recent trades for a user, newest first.
func (r *TradeRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Trade, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount_nano, tokens, rate, status, created_at
		 FROM trades
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.UserID, &t.AmountNano, &t.Tokens, &t.Rate, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, nil
}

// CreateWithTx appends an immutable trade record inside an existing transaction.
func (r *TradeRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, t *domain.Trade) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO trades (user_id, amount_nano, tokens, rate, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.UserID, t.AmountNano, t.Tokens, t.Rate, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetLockedBalance returns the lifetime locked token balance; a user with no
// row yet simply has zero.
func (r *TradeRepository) GetLockedBalance(ctx context.Context, userID int64) (int64, error) {
	var lifetime int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT lifetime FROM locked_balances WHERE user_id = $1), 0)`,
		userID,
	).Scan(&lifetime)
	return lifetime, err
}

// LockLockedBalanceTx lazily creates and row-locks the locked balance record,
// returning the current lifetime value. Must run inside a transaction.
func (r *TradeRepository) LockLockedBalanceTx(ctx context.Context, dbTx pgx.Tx, userID int64) (int64, error) {
	if _, err := dbTx.Exec(ctx,
		`INSERT INTO locked_balances (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return 0, err
	}

	var lifetime int64
	err := dbTx.QueryRow(ctx,
		`SELECT lifetime FROM locked_balances WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&lifetime)
	return lifetime, err
}

// CreditLockedBalanceTx adds tokens to the lifetime locked balance. The caller
// holds the row lock and has already checked the wallet ceiling.
func (r *TradeRepository) CreditLockedBalanceTx(ctx context.Context, dbTx pgx.Tx, userID, tokens int64) (int64, error) {
	var lifetime int64
	err := dbTx.QueryRow(ctx,
		`UPDATE locked_balances SET lifetime = lifetime + $1, updated_at = now()
		 WHERE user_id = $2
		 RETURNING lifetime`,
		tokens, userID,
	).Scan(&lifetime)
	return lifetime, err
}

// GetDailyTotal returns tokens bought during the given UTC day.
func (r *TradeRepository) GetDailyTotal(ctx context.Context, userID int64, day time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT total_tokens FROM trade_daily WHERE user_id = $1 AND day = $2), 0)`,
		userID, day,
	).Scan(&total)
	return total, err
}

// LockDailyTx lazily creates and row-locks the daily record for (user, day),
// returning the current total. Must run inside a transaction.
func (r *TradeRepository) LockDailyTx(ctx context.Context, dbTx pgx.Tx, userID int64, day time.Time) (int64, error) {
	if _, err := dbTx.Exec(ctx,
		`INSERT INTO trade_daily (user_id, day) VALUES ($1, $2) ON CONFLICT (user_id, day) DO NOTHING`,
		userID, day,
	); err != nil {
		return 0, err
	}

	var total int64
	err := dbTx.QueryRow(ctx,
		`SELECT total_tokens FROM trade_daily WHERE user_id = $1 AND day = $2 FOR UPDATE`,
		userID, day,
	).Scan(&total)
	return total, err
}

// CreditDailyTx adds tokens to the day's running total under the held lock.
func (r *TradeRepository) CreditDailyTx(ctx context.Context, dbTx pgx.Tx, userID int64, day time.Time, tokens int64) (int64, error) {
	var total int64
	err := dbTx.QueryRow(ctx,
		`UPDATE trade_daily SET total_tokens = total_tokens + $1
		 WHERE user_id = $2 AND day = $3
		 RETURNING total_tokens`,
		tokens, userID, day,
	).Scan(&total)
	return total, err
}
