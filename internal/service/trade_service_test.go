package service

import (
	"errors"
	"testing"
	"time"

	"rewards_webapp/internal/ton"
)

func testLimits() TradeLimits {
	return TradeLimits{
		Rate:       2000,
		MinNano:    ton.NanoTON / 10,
		MaxNano:    2 * ton.NanoTON,
		DailyLimit: 5000,
		WalletMax:  100000,
	}
}

func TestAdmitTrade_ConversionExact(t *testing.T) {
	// 1 TON at rate 2000 must convert to exactly 2000 tokens
	tokens, err := admitTrade(testLimits(), ton.NanoTON, ton.NanoTON, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens != 2000 {
		t.Fatalf("tokens = %d; want 2000", tokens)
	}
}

func TestAdmitTrade_InsufficientFunds(t *testing.T) {
	_, err := admitTrade(testLimits(), ton.NanoTON, ton.NanoTON-1, 0, 0)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v; want ErrInsufficientFunds", err)
	}
}

func TestAdmitTrade_WalletLimit(t *testing.T) {
	// lifetime 99,000 of 100,000: a 2000-token trade must fail with
	// remaining headroom 1000
	_, err := admitTrade(testLimits(), ton.NanoTON, 10*ton.NanoTON, 99000, 0)

	var walletErr *WalletLimitError
	if !errors.As(err, &walletErr) {
		t.Fatalf("err = %v; want WalletLimitError", err)
	}
	if walletErr.Remaining != 1000 {
		t.Fatalf("remaining = %d; want 1000", walletErr.Remaining)
	}
}

func TestAdmitTrade_WalletBoundaryInclusive(t *testing.T) {
	// lifetime 98,000: the same trade lands exactly on the ceiling and
	// must be allowed
	tokens, err := admitTrade(testLimits(), ton.NanoTON, 10*ton.NanoTON, 98000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens != 2000 {
		t.Fatalf("tokens = %d; want 2000", tokens)
	}
}

func TestAdmitTrade_DailyLimit(t *testing.T) {
	// 4000 already bought today of 5000: a 2000-token trade must fail
	// with remaining 1000
	_, err := admitTrade(testLimits(), ton.NanoTON, 10*ton.NanoTON, 0, 4000)

	var dailyErr *DailyLimitError
	if !errors.As(err, &dailyErr) {
		t.Fatalf("err = %v; want DailyLimitError", err)
	}
	if dailyErr.Remaining != 1000 {
		t.Fatalf("remaining = %d; want 1000", dailyErr.Remaining)
	}
}

func TestAdmitTrade_DailyBoundaryInclusive(t *testing.T) {
	tokens, err := admitTrade(testLimits(), ton.NanoTON/2, 10*ton.NanoTON, 0, 4000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens != 1000 {
		t.Fatalf("tokens = %d; want 1000", tokens)
	}
}

func TestAdmitTrade_CheckOrder(t *testing.T) {
	// funds are checked before limits: with both violated, the funds
	// error wins
	_, err := admitTrade(testLimits(), ton.NanoTON, 0, 99999, 4999)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v; want ErrInsufficientFunds", err)
	}
}

func TestUtcDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		// 02:30 local UTC+5 is still the previous UTC day
		{time.Date(2024, 3, 11, 2, 30, 0, 0, loc), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		if got := utcDay(tc.in); !got.Equal(tc.want) {
			t.Fatalf("utcDay(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}
