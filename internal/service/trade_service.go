package service

import (
	"context"
	"errors"
	"math"
	"time"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/ton"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storageConflictRetries bounds how many times a trade is re-run after the
// database reports a serialization failure or deadlock.
const storageConflictRetries = 3

// TradeLimits are the fixed admission bounds for TON -> token conversions.
// They are configuration constants, not runtime-tunable state.
type TradeLimits struct {
	Rate       int64 // tokens per TON
	MinNano    int64
	MaxNano    int64
	DailyLimit int64 // tokens per UTC day
	WalletMax  int64 // lifetime tokens
}

// DefaultTradeLimits returns the platform limits.
func DefaultTradeLimits() TradeLimits {
	return TradeLimits{
		Rate:       ton.TokensPerTON,
		MinNano:    ton.MinTradeNano,
		MaxNano:    ton.MaxTradeNano,
		DailyLimit: ton.DailyTradeLimit,
		WalletMax:  ton.WalletMaxTokens,
	}
}

// TradeService admission-controls and executes trades: it converts a TON
// amount into locked tokens subject to per-trade, per-day and lifetime
// bounds, debiting the spendable TON balance in the same transaction.
type TradeService struct {
	db              *pgxpool.Pool
	tradeRepo       *repository.TradeRepository
	transactionRepo *repository.TransactionRepository
	limits          TradeLimits
}

func NewTradeService(db *pgxpool.Pool) *TradeService {
	return &TradeService{
		db:              db,
		tradeRepo:       repository.NewTradeRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		limits:          DefaultTradeLimits(),
	}
}

// Limits returns the fixed trade configuration.
func (s *TradeService) Limits() TradeLimits {
	return s.limits
}

// TradeResult is returned after a successful trade.
type TradeResult struct {
	TradeID          int64     `json:"trade_id"`
	TokensReceived   int64     `json:"tokens_received"`
	NewLockedBalance int64     `json:"new_locked_balance"`
	NewTonBalance    int64     `json:"new_ton_balance_nano"`
	CreatedAt        time.Time `json:"created_at"`
}

// Execute validates and runs one trade. tonAmount is in TON; everything past
// the format check is integer nanoTON math. The read-validate-write sequence
// runs inside a single row-locked transaction and is retried on storage
// conflicts, so concurrent trades for one account serialize instead of both
// passing stale limit reads.
func (s *TradeService) Execute(ctx context.Context, userID int64, tonAmount float64) (*TradeResult, error) {
	if math.IsNaN(tonAmount) || math.IsInf(tonAmount, 0) || tonAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	amountNano := ton.TONToNano(tonAmount)
	if amountNano < s.limits.MinNano || amountNano > s.limits.MaxNano {
		return nil, &OutOfRangeError{MinNano: s.limits.MinNano, MaxNano: s.limits.MaxNano}
	}

	var (
		result *TradeResult
		err    error
	)
	for attempt := 0; attempt <= storageConflictRetries; attempt++ {
		result, err = s.executeOnce(ctx, userID, amountNano)
		if !isConflict(err) {
			return result, err
		}
	}
	return nil, ErrStorageConflict
}

func (s *TradeService) executeOnce(ctx context.Context, userID, amountNano int64) (*TradeResult, error) {
	now := time.Now().UTC()
	day := utcDay(now)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the user row for the whole check-and-update.
	var tonBalance int64
	err = tx.QueryRow(ctx,
		`SELECT ton_balance_nano FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&tonBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	lifetime, err := s.tradeRepo.LockLockedBalanceTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	todayTotal, err := s.tradeRepo.LockDailyTx(ctx, tx, userID, day)
	if err != nil {
		return nil, err
	}

	tokens, err := admitTrade(s.limits, amountNano, tonBalance, lifetime, todayTotal)
	if err != nil {
		return nil, err
	}

	// All checks passed under the held locks; apply the three mutations and
	// the append-only trade record as one commit.
	var newTonBalance int64
	err = tx.QueryRow(ctx,
		`UPDATE users SET ton_balance_nano = ton_balance_nano - $1 WHERE id = $2 RETURNING ton_balance_nano`,
		amountNano, userID,
	).Scan(&newTonBalance)
	if err != nil {
		return nil, err
	}

	newLifetime, err := s.tradeRepo.CreditLockedBalanceTx(ctx, tx, userID, tokens)
	if err != nil {
		return nil, err
	}

	if _, err := s.tradeRepo.CreditDailyTx(ctx, tx, userID, day, tokens); err != nil {
		return nil, err
	}

	trade := &domain.Trade{
		UserID:     userID,
		AmountNano: amountNano,
		Tokens:     tokens,
		Rate:       s.limits.Rate,
		Status:     domain.TradeStatusCompleted,
	}
	if err := s.tradeRepo.CreateWithTx(ctx, tx, trade); err != nil {
		return nil, err
	}

	audit := &domain.Transaction{
		UserID: userID,
		Type:   "trade",
		Amount: tokens,
		Meta: map[string]interface{}{
			"trade_id":    trade.ID,
			"amount_nano": amountNano,
			"rate":        s.limits.Rate,
		},
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TradeResult{
		TradeID:          trade.ID,
		TokensReceived:   tokens,
		NewLockedBalance: newLifetime,
		NewTonBalance:    newTonBalance,
		CreatedAt:        trade.CreatedAt,
	}, nil
}

// Stats returns the limit headroom for an account. Read path only.
func (s *TradeService) Stats(ctx context.Context, userID int64) (*domain.TradeStats, error) {
	now := time.Now().UTC()

	lifetime, err := s.tradeRepo.GetLockedBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	todayTotal, err := s.tradeRepo.GetDailyTotal(ctx, userID, utcDay(now))
	if err != nil {
		return nil, err
	}

	walletRemaining := s.limits.WalletMax - lifetime
	if walletRemaining < 0 {
		walletRemaining = 0
	}
	todayRemaining := s.limits.DailyLimit - todayTotal
	if todayRemaining < 0 {
		todayRemaining = 0
	}

	minTokens := s.limits.MinNano * s.limits.Rate / ton.NanoTON
	return &domain.TradeStats{
		LockedBalance:   lifetime,
		TodayPurchased:  todayTotal,
		TodayRemaining:  todayRemaining,
		WalletRemaining: walletRemaining,
		CanTrade:        walletRemaining >= minTokens && todayRemaining >= minTokens,
	}, nil
}

// History returns recent trades for the account, newest first.
func (s *TradeService) History(ctx context.Context, userID int64, limit int) ([]*domain.Trade, error) {
	return s.tradeRepo.GetByUserID(ctx, userID, limit)
}

// admitTrade applies the three admission bounds against values read under the
// caller's locks. Limits are boundary inclusive: a trade landing exactly on a
// ceiling is allowed, only strictly exceeding it fails. On any error no state
// may be mutated.
func admitTrade(limits TradeLimits, amountNano, tonBalance, lifetime, todayTotal int64) (int64, error) {
	tokens := amountNano * limits.Rate / ton.NanoTON

	if tonBalance < amountNano {
		return 0, ErrInsufficientFunds
	}
	if lifetime+tokens > limits.WalletMax {
		return 0, &WalletLimitError{Remaining: limits.WalletMax - lifetime}
	}
	if todayTotal+tokens > limits.DailyLimit {
		return 0, &DailyLimitError{Remaining: limits.DailyLimit - todayTotal}
	}
	return tokens, nil
}

// utcDay truncates to the UTC calendar day used as the daily record key.
// Day boundaries are UTC midnight regardless of server or client locale.
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isConflict reports whether the error is a retryable storage conflict
// (serialization failure or deadlock).
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
