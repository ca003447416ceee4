package handlers

import (
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB              *pgxpool.Pool
	BotToken        string
	ClaimService    *service.ClaimService
	TradeService    *service.TradeService
	DepositService  *service.DepositService
	TransactionRepo *repository.TransactionRepository
}

func NewHandler(db *pgxpool.Pool, botToken string) *Handler {
	return &Handler{
		DB:              db,
		BotToken:        botToken,
		ClaimService:    service.NewClaimService(db),
		TradeService:    service.NewTradeService(db),
		DepositService:  service.NewDepositService(db),
		TransactionRepo: repository.NewTransactionRepository(db),
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
