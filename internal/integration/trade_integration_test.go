package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"

	"github.com/jackc/pgx/v5/pgxpool"
)

func fundUser(t *testing.T, db *pgxpool.Pool, userID, nano int64) {
	t.Helper()
	repo := repository.NewUserRepository(db)
	if _, err := repo.UpdateTonBalance(context.Background(), userID, nano); err != nil {
		t.Fatalf("fund user: %v", err)
	}
}

func snapshot(t *testing.T, db *pgxpool.Pool, userID int64) (tonBalance, lifetime, today, tradeCount int64) {
	t.Helper()
	ctx := context.Background()

	if err := db.QueryRow(ctx, `SELECT ton_balance_nano FROM users WHERE id = $1`, userID).Scan(&tonBalance); err != nil {
		t.Fatalf("read ton balance: %v", err)
	}
	if err := db.QueryRow(ctx,
		`SELECT COALESCE((SELECT lifetime FROM locked_balances WHERE user_id = $1), 0)`, userID).Scan(&lifetime); err != nil {
		t.Fatalf("read lifetime: %v", err)
	}
	if err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_tokens), 0) FROM trade_daily WHERE user_id = $1`, userID).Scan(&today); err != nil {
		t.Fatalf("read daily: %v", err)
	}
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM trades WHERE user_id = $1`, userID).Scan(&tradeCount); err != nil {
		t.Fatalf("read trades: %v", err)
	}
	return
}

func TestTrade_Execute(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	fundUser(t, db, u.ID, 5*ton.NanoTON)

	trades := service.NewTradeService(db)

	res, err := trades.Execute(context.Background(), u.ID, 1.0)
	if err != nil {
		t.Fatalf("trade: %v", err)
	}
	if res.TokensReceived != 2000 {
		t.Fatalf("tokens = %d; want 2000", res.TokensReceived)
	}
	if res.NewLockedBalance != 2000 {
		t.Fatalf("locked = %d; want 2000", res.NewLockedBalance)
	}
	if res.NewTonBalance != 4*ton.NanoTON {
		t.Fatalf("ton balance = %d; want %d", res.NewTonBalance, 4*ton.NanoTON)
	}
	if res.TradeID == 0 {
		t.Fatalf("trade id not assigned")
	}

	stats, err := trades.Stats(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodayPurchased != 2000 || stats.TodayRemaining != 3000 {
		t.Fatalf("stats = %+v; want today 2000/3000", stats)
	}
	if stats.WalletRemaining != 98000 {
		t.Fatalf("wallet remaining = %d; want 98000", stats.WalletRemaining)
	}

	history, err := trades.History(context.Background(), u.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != res.TradeID {
		t.Fatalf("history = %+v; want the executed trade", history)
	}
}

func TestTrade_RejectionsLeaveNoTrace(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	fundUser(t, db, u.ID, ton.NanoTON/2)

	trades := service.NewTradeService(db)
	ctx := context.Background()

	before := [4]int64{}
	before[0], before[1], before[2], before[3] = snapshot(t, db, u.ID)

	cases := []struct {
		name   string
		amount float64
		check  func(error) bool
	}{
		{"zero", 0, func(err error) bool { return errors.Is(err, service.ErrInvalidAmount) }},
		{"negative", -1, func(err error) bool { return errors.Is(err, service.ErrInvalidAmount) }},
		{"below minimum", 0.01, func(err error) bool {
			var e *service.OutOfRangeError
			return errors.As(err, &e)
		}},
		{"above maximum", 3, func(err error) bool {
			var e *service.OutOfRangeError
			return errors.As(err, &e)
		}},
		{"insufficient funds", 1, func(err error) bool { return errors.Is(err, service.ErrInsufficientFunds) }},
	}

	for _, tc := range cases {
		_, err := trades.Execute(ctx, u.ID, tc.amount)
		if err == nil || !tc.check(err) {
			t.Fatalf("%s: err = %v; want rejection", tc.name, err)
		}
	}

	after := [4]int64{}
	after[0], after[1], after[2], after[3] = snapshot(t, db, u.ID)
	if before != after {
		t.Fatalf("rejected trades mutated state: before=%v after=%v", before, after)
	}
}

func TestTrade_DailyLimitEnforced(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	fundUser(t, db, u.ID, 10*ton.NanoTON)

	trades := service.NewTradeService(db)
	ctx := context.Background()

	// 2 TON -> 4000 tokens of the 5000 daily limit
	if _, err := trades.Execute(ctx, u.ID, 2.0); err != nil {
		t.Fatalf("first trade: %v", err)
	}

	// 1 TON -> 2000 tokens would exceed it, remaining headroom 1000
	_, err := trades.Execute(ctx, u.ID, 1.0)
	var dailyErr *service.DailyLimitError
	if !errors.As(err, &dailyErr) {
		t.Fatalf("err = %v; want DailyLimitError", err)
	}
	if dailyErr.Remaining != 1000 {
		t.Fatalf("remaining = %d; want 1000", dailyErr.Remaining)
	}

	// exactly the remaining 1000 tokens (0.5 TON) is allowed
	res, err := trades.Execute(ctx, u.ID, 0.5)
	if err != nil {
		t.Fatalf("boundary trade: %v", err)
	}
	if res.TokensReceived != 1000 {
		t.Fatalf("tokens = %d; want 1000", res.TokensReceived)
	}

	stats, err := trades.Stats(ctx, u.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodayPurchased != 5000 || stats.TodayRemaining != 0 {
		t.Fatalf("stats = %+v; want daily limit fully used", stats)
	}
	if stats.CanTrade {
		t.Fatalf("can_trade = true with zero daily headroom")
	}
}

func TestTrade_ConcurrentRespectsDailyLimit(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	fundUser(t, db, u.ID, 20*ton.NanoTON)

	trades := service.NewTradeService(db)

	// 5 concurrent 1 TON trades (2000 tokens each) against a 5000 token
	// daily limit: at most 2 may commit
	const n = 5
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = trades.Execute(context.Background(), u.ID, 1.0)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Fatalf("%d concurrent trades succeeded; want exactly 2", succeeded)
	}

	_, lifetime, today, tradeCount := snapshot(t, db, u.ID)
	if today != 4000 || lifetime != 4000 || tradeCount != 2 {
		t.Fatalf("state after concurrency: today=%d lifetime=%d trades=%d; want 4000/4000/2", today, lifetime, tradeCount)
	}
}
