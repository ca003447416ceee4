package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"rewards_webapp/internal/db"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"

	"github.com/joho/godotenv"
)

// Scans the platform wallet for incoming transfers and credits deposits that
// carry a "uid:<id>" memo. Safe to re-run: crediting dedups on tx hash.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	platformWallet := os.Getenv("TON_PLATFORM_WALLET")
	if platformWallet == "" {
		log.Fatal("TON_PLATFORM_WALLET not set")
	}

	network := ton.NetworkMainnet
	if os.Getenv("TON_NETWORK") == "testnet" {
		network = ton.NetworkTestnet
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	client := ton.NewClient(network, os.Getenv("TON_API_KEY"))
	deposits := service.NewDepositService(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	txs, err := client.GetTransactions(ctx, platformWallet, 100, 0)
	if err != nil {
		log.Fatalf("fetch transactions: %v", err)
	}

	credited, skipped := 0, 0
	for _, tx := range ton.ParseIncomingTransactions(txs, platformWallet) {
		userID, ok := parseMemo(ton.ExtractMemo(&tx))
		if !ok {
			skipped++
			continue
		}

		_, _, err := deposits.Credit(ctx, userID, tx.InMsg.Source, tx.InMsg.Value, tx.Hash, ton.ExtractMemo(&tx))
		switch {
		case err == nil:
			credited++
			log.Printf("credited %d nano to user %d (tx %s)", tx.InMsg.Value, userID, tx.Hash)
		case errors.Is(err, service.ErrDuplicateDeposit):
			skipped++
		case errors.Is(err, service.ErrDepositTooSmall), errors.Is(err, service.ErrUserNotFound):
			skipped++
			log.Printf("skipping tx %s: %v", tx.Hash, err)
		default:
			log.Fatalf("credit tx %s: %v", tx.Hash, err)
		}
	}

	log.Printf("done: %d credited, %d skipped", credited, skipped)
}

// parseMemo pulls the user id out of a "uid:<id>" transfer comment.
func parseMemo(memo string) (int64, bool) {
	memo = strings.TrimSpace(memo)
	if !strings.HasPrefix(memo, "uid:") {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(memo, "uid:"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
