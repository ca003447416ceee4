package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStorageConflict is returned after conflict retries are exhausted.
	ErrStorageConflict = errors.New("storage conflict")
)

// NotReadyError is returned when a claim is attempted before the cooldown
// elapses. Remaining is how long until the next claim becomes available.
type NotReadyError struct {
	Remaining time.Duration
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("claim not ready, %d seconds remaining", int64(e.Remaining.Seconds()))
}

// RemainingSeconds reports the wait rounded up so clients never retry early.
func (e *NotReadyError) RemainingSeconds() int64 {
	secs := int64(e.Remaining / time.Second)
	if e.Remaining%time.Second != 0 {
		secs++
	}
	return secs
}

// OutOfRangeError is returned when a trade amount violates the fixed
// per-transaction bounds.
type OutOfRangeError struct {
	MinNano int64
	MaxNano int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("amount out of range [%d, %d] nanoTON", e.MinNano, e.MaxNano)
}

// WalletLimitError is returned when a trade would push the lifetime locked
// balance over the wallet ceiling. Remaining is the token headroom left.
type WalletLimitError struct {
	Remaining int64
}

func (e *WalletLimitError) Error() string {
	return fmt.Sprintf("wallet limit exceeded, %d tokens remaining", e.Remaining)
}

// DailyLimitError is returned when a trade would exceed the per-day token
// limit. Remaining is the token headroom left today.
type DailyLimitError struct {
	Remaining int64
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily limit exceeded, %d tokens remaining today", e.Remaining)
}
