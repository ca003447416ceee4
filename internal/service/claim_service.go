package service

import (
	"context"
	"errors"
	"time"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/ton"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClaimService owns the daily reward cooldown. An account is Locked until
// countdown_end and Ready at or after it; a successful claim credits the
// reward and restarts the cooldown in the same statement.
type ClaimService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
	reward          int64
	cooldown        time.Duration
}

func NewClaimService(db *pgxpool.Pool) *ClaimService {
	return &ClaimService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
		reward:          ton.RewardAmount,
		cooldown:        ton.ClaimCooldown,
	}
}

// ClaimStatus is the read-path view of the cooldown state machine.
type ClaimStatus struct {
	Balance          int64 `json:"balance"`
	TotalEarned      int64 `json:"total_earned"`
	RemainingSeconds int64 `json:"remaining_seconds"`
	CanClaim         bool  `json:"can_claim"`
}

// ClaimResult is returned after a successful claim.
type ClaimResult struct {
	Balance     int64 `json:"balance"`
	TotalEarned int64 `json:"total_earned"`
}

// Status reads the account's claim state. Pure read, no side effects.
// All comparisons use one canonical now sampled at entry.
func (s *ClaimService) Status(ctx context.Context, userID int64) (*ClaimStatus, error) {
	now := time.Now().UTC()

	var (
		balance, totalEarned int64
		countdownEnd         time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT balance, total_earned, countdown_end FROM users WHERE id = $1`,
		userID,
	).Scan(&balance, &totalEarned, &countdownEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	remaining := remainingSeconds(now, countdownEnd)
	return &ClaimStatus{
		Balance:          balance,
		TotalEarned:      totalEarned,
		RemainingSeconds: remaining,
		CanClaim:         remaining == 0,
	}, nil
}

// Claim executes the cooldown-gated reward credit. The eligibility check and
// the mutation are one conditional UPDATE, so two concurrent claims for the
// same account can never both succeed inside one cooldown window: the row is
// updated at most once per elapsed countdown_end.
func (s *ClaimService) Claim(ctx context.Context, userID int64) (*ClaimResult, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var res ClaimResult
	err = tx.QueryRow(ctx,
		`UPDATE users
		 SET balance = balance + $1,
		     total_earned = total_earned + $1,
		     last_claim = $2,
		     countdown_end = $3
		 WHERE id = $4 AND countdown_end <= $2
		 RETURNING balance, total_earned`,
		s.reward, now, now.Add(s.cooldown), userID,
	).Scan(&res.Balance, &res.TotalEarned)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either still locked or no such user. Re-read to tell which and to
		// report the remaining wait. No mutation happened.
		var countdownEnd time.Time
		readErr := s.db.QueryRow(ctx,
			`SELECT countdown_end FROM users WHERE id = $1`, userID,
		).Scan(&countdownEnd)
		if errors.Is(readErr, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if readErr != nil {
			return nil, readErr
		}
		return nil, &NotReadyError{Remaining: countdownEnd.Sub(now)}
	}
	if err != nil {
		return nil, err
	}

	claimTx := &domain.Transaction{
		UserID: userID,
		Type:   "claim",
		Amount: s.reward,
		Meta:   map[string]interface{}{"next_claim_at": now.Add(s.cooldown).Format(time.RFC3339)},
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, claimTx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &res, nil
}

// remainingSeconds floors the wait at zero and rounds partial seconds up so a
// client that sleeps the reported time is never early.
func remainingSeconds(now, countdownEnd time.Time) int64 {
	if !now.Before(countdownEnd) {
		return 0
	}
	d := countdownEnd.Sub(now)
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// claimReady reports whether a claim at now would succeed. The boundary is
// inclusive: a claim at exactly countdown_end is Ready.
func claimReady(now, countdownEnd time.Time) bool {
	return !now.Before(countdownEnd)
}
