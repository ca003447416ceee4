package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func createTestUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	repo := repository.NewUserRepository(db)
	u := &domain.User{
		TgID:      time.Now().UnixNano(),
		Username:  "claimtester",
		FirstName: "Claim",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func makeClaimReady(t *testing.T, db *pgxpool.Pool, userID int64) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`UPDATE users SET countdown_end = now() - interval '1 second' WHERE id = $1`, userID)
	if err != nil {
		t.Fatalf("reset countdown: %v", err)
	}
}

func TestClaim_BeforeCooldownFails(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)

	claims := service.NewClaimService(db)

	// fresh account is locked for a full cooldown
	_, err := claims.Claim(context.Background(), u.ID)
	var notReady *service.NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("err = %v; want NotReadyError", err)
	}
	if notReady.RemainingSeconds() <= 0 {
		t.Fatalf("remaining = %d; want > 0", notReady.RemainingSeconds())
	}

	// balance untouched
	status, err := claims.Status(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Balance != 0 || status.TotalEarned != 0 {
		t.Fatalf("balance mutated by rejected claim: %+v", status)
	}
}

func TestClaim_SucceedsOnceThenLocks(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	makeClaimReady(t, db, u.ID)

	claims := service.NewClaimService(db)

	res, err := claims.Claim(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Balance != ton.RewardAmount || res.TotalEarned != ton.RewardAmount {
		t.Fatalf("claim result = %+v; want balance and total %d", res, ton.RewardAmount)
	}

	// immediately locked again for the full cooldown
	_, err = claims.Claim(context.Background(), u.ID)
	var notReady *service.NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("second claim err = %v; want NotReadyError", err)
	}
}

func TestClaim_ConcurrentExactlyOnce(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)
	makeClaimReady(t, db, u.ID)

	claims := service.NewClaimService(db)

	const n = 10
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = claims.Claim(context.Background(), u.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var notReady *service.NotReadyError
		if !errors.As(err, &notReady) {
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d concurrent claims succeeded; want exactly 1", succeeded)
	}

	status, err := claims.Status(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Balance != ton.RewardAmount {
		t.Fatalf("balance = %d after concurrent claims; want %d", status.Balance, ton.RewardAmount)
	}
}
