package service

import (
	"context"
	"errors"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/ton"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDepositTooSmall = errors.New("deposit below minimum")
var ErrDuplicateDeposit = errors.New("deposit already recorded")

// DepositService credits incoming TON to the spendable balance. The deposit
// record and the balance credit commit in one transaction; a tx hash is
// credited at most once.
type DepositService struct {
	db              *pgxpool.Pool
	depositRepo     *repository.DepositRepository
	transactionRepo *repository.TransactionRepository
}

func NewDepositService(db *pgxpool.Pool) *DepositService {
	return &DepositService{
		db:              db,
		depositRepo:     repository.NewDepositRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// Credit records a confirmed deposit and adds the amount to the user's TON
// balance. Returns the stored deposit and the new balance.
func (s *DepositService) Credit(ctx context.Context, userID int64, walletAddress string, amountNano int64, txHash, memo string) (*domain.Deposit, int64, error) {
	if amountNano < ton.MinDepositNano {
		return nil, 0, ErrDepositTooSmall
	}

	if txHash != "" {
		existing, err := s.depositRepo.GetByTxHash(ctx, txHash)
		if err != nil {
			return nil, 0, err
		}
		if existing != nil {
			return nil, 0, ErrDuplicateDeposit
		}
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var newBalance int64
	err = tx.QueryRow(ctx,
		`UPDATE users SET ton_balance_nano = ton_balance_nano + $1 WHERE id = $2 RETURNING ton_balance_nano`,
		amountNano, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	deposit := &domain.Deposit{
		UserID:        userID,
		WalletAddress: walletAddress,
		AmountNano:    amountNano,
		CreditedNano:  amountNano,
		TxHash:        txHash,
		Memo:          memo,
	}
	if err := s.depositRepo.CreateConfirmedTx(ctx, tx, deposit); err != nil {
		return nil, 0, err
	}

	audit := &domain.Transaction{
		UserID: userID,
		Type:   "deposit",
		Amount: amountNano,
		Meta: map[string]interface{}{
			"tx_hash":    txHash,
			"deposit_id": deposit.ID,
		},
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, audit); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return deposit, newBalance, nil
}
