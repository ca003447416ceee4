package main

import (
	"context"
	"log"
	"os"

	"rewards_webapp/internal/db"
	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
)

func main() {
	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	tgID := int64(1234567890)

	existing, err := repo.GetByTgID(ctx, tgID)
	var u *domain.User
	if err == nil {
		u = existing
		log.Printf("user already exists id=%d\n", u.ID)
	} else {
		u = &domain.User{
			TgID:      tgID,
			Username:  "testuser",
			FirstName: "Tester",
		}

		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}

		log.Printf("user created id=%d, first claim at %s\n", u.ID, u.CountdownEnd)
	}

	// fund the test account with 5 TON so trades can be exercised
	newBalance, err := repo.UpdateTonBalance(ctx, u.ID, 5_000_000_000)
	if err != nil {
		log.Fatalf("fund user failed: %v", err)
	}
	log.Printf("ton balance now %d nano\n", newBalance)
}
