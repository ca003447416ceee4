package repository

import (
	"context"
	"errors"

	"rewards_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, tg_id, COALESCE(username, ''), COALESCE(first_name, ''),
	balance, total_earned, ton_balance_nano, last_claim, countdown_end, created_at`

func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE tg_id = $1`,
		tgID,
	)

	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.TgID,
		&u.Username,
		&u.FirstName,
		&u.Balance,
		&u.TotalEarned,
		&u.TonBalanceNano,
		&u.LastClaim,
		&u.CountdownEnd,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE id = $1`,
		id,
	)

	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.TgID,
		&u.Username,
		&u.FirstName,
		&u.Balance,
		&u.TotalEarned,
		&u.TonBalanceNano,
		&u.LastClaim,
		&u.CountdownEnd,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &u, nil
}

// Create inserts a new user. New accounts start Locked: the first claim
// becomes available one full cooldown after registration (schema default).
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (tg_id, username, first_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, countdown_end, created_at`,
		u.TgID,
		u.Username,
		u.FirstName,
	).Scan(&u.ID, &u.CountdownEnd, &u.CreatedAt)
}

// UpdateTonBalance adjusts the spendable TON balance, refusing to go negative.
func (r *UserRepository) UpdateTonBalance(ctx context.Context, userID int64, deltaNano int64) (int64, error) {
	var newBalance int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET ton_balance_nano = ton_balance_nano + $1
		 WHERE id = $2 AND ton_balance_nano + $1 >= 0
		 RETURNING ton_balance_nano`,
		deltaNano, userID,
	).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientFunds
	}
	return newBalance, err
}

// GetTonBalance returns the spendable TON balance in nanoTON.
func (r *UserRepository) GetTonBalance(ctx context.Context, userID int64) (int64, error) {
	var nano int64
	err := r.db.QueryRow(ctx, `SELECT ton_balance_nano FROM users WHERE id = $1`, userID).Scan(&nano)
	return nano, err
}
