package repository

import (
	"context"
	"time"

	"rewards_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

const depositColumns = `id, user_id, wallet_address, amount_nano, credited_nano,
	tx_hash, COALESCE(tx_lt, 0), status, COALESCE(memo, ''), created_at, confirmed_at, processed`

// GetByTxHash retrieves deposit by transaction hash (used for dedup).
func (r *DepositRepository) GetByTxHash(ctx context.Context, txHash string) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE tx_hash = $1`, txHash)

	d, err := scanDeposit(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// GetByUserID retrieves recent deposits for a user
func (r *DepositRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Deposit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+depositColumns+`
		 FROM deposits
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

// CreateConfirmedTx inserts an already-confirmed deposit inside an existing
// transaction, so the record and the TON balance credit commit together.
func (r *DepositRepository) CreateConfirmedTx(ctx context.Context, dbTx pgx.Tx, d *domain.Deposit) error {
	now := time.Now().UTC()
	d.Status = domain.DepositStatusConfirmed
	d.ConfirmedAt = &now
	d.Processed = true

	return dbTx.QueryRow(ctx,
		`INSERT INTO deposits (user_id, wallet_address, amount_nano, credited_nano, tx_hash, tx_lt, status, memo, confirmed_at, processed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		 RETURNING id, created_at`,
		d.UserID, d.WalletAddress, d.AmountNano, d.CreditedNano, d.TxHash, d.TxLt, d.Status, d.Memo, d.ConfirmedAt,
	).Scan(&d.ID, &d.CreatedAt)
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	if err := row.Scan(
		&d.ID, &d.UserID, &d.WalletAddress, &d.AmountNano, &d.CreditedNano,
		&d.TxHash, &d.TxLt, &d.Status, &d.Memo, &d.CreatedAt, &d.ConfirmedAt, &d.Processed,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
