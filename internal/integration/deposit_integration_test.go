package integration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"
)

func TestDeposit_CreditOnce(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)

	deposits := service.NewDepositService(db)
	ctx := context.Background()

	txHash := fmt.Sprintf("itest-%d", time.Now().UnixNano())
	dep, balance, err := deposits.Credit(ctx, u.ID, "EQ-test-address", 2*ton.NanoTON, txHash, "memo")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if dep.AmountNano != 2*ton.NanoTON {
		t.Fatalf("deposit amount = %d; want %d", dep.AmountNano, 2*ton.NanoTON)
	}
	if balance != 2*ton.NanoTON {
		t.Fatalf("balance = %d; want %d", balance, 2*ton.NanoTON)
	}

	// same tx hash must not credit twice
	_, _, err = deposits.Credit(ctx, u.ID, "EQ-test-address", 2*ton.NanoTON, txHash, "memo")
	if !errors.Is(err, service.ErrDuplicateDeposit) {
		t.Fatalf("err = %v; want ErrDuplicateDeposit", err)
	}

	tonBalance, _, _, _ := snapshot(t, db, u.ID)
	if tonBalance != 2*ton.NanoTON {
		t.Fatalf("ton balance after duplicate = %d; want %d", tonBalance, 2*ton.NanoTON)
	}
}

func TestDeposit_BelowMinimumRejected(t *testing.T) {
	db := connectTestDB(t)
	u := createTestUser(t, db)

	deposits := service.NewDepositService(db)

	_, _, err := deposits.Credit(context.Background(), u.ID, "EQ-test-address", ton.MinDepositNano-1, "itest-small", "memo")
	if !errors.Is(err, service.ErrDepositTooSmall) {
		t.Fatalf("err = %v; want ErrDepositTooSmall", err)
	}
}
