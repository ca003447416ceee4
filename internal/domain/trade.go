package domain

import "time"

// Trade is an immutable record of one executed TON -> token conversion.
// Rows are append-only: status is fixed at insertion and never edited.
type Trade struct {
	ID         int64       `db:"id" json:"id"`
	UserID     int64       `db:"user_id" json:"user_id"`
	AmountNano int64       `db:"amount_nano" json:"amount_nano"`
	Tokens     int64       `db:"tokens" json:"tokens"`
	Rate       int64       `db:"rate" json:"rate"`
	Status     TradeStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// TradeStatus represents trade state. Trades are created already completed;
// a failed admission never creates a row.
type TradeStatus string

const (
	TradeStatusCompleted TradeStatus = "completed"
)

// LockedBalance tracks tokens acquired via trades, separate from the claim
// reward balance. Lifetime is monotonically non-decreasing and capped by the
// wallet maximum.
type LockedBalance struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	Lifetime  int64     `db:"lifetime" json:"lifetime"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DailyTradeRecord accumulates tokens bought during one UTC calendar day.
// A new day creates a new row; old rows are never mutated after rollover.
type DailyTradeRecord struct {
	UserID      int64     `db:"user_id" json:"user_id"`
	Day         time.Time `db:"day" json:"day"`
	TotalTokens int64     `db:"total_tokens" json:"total_tokens"`
}

// TradeStats is returned to the client before trading.
type TradeStats struct {
	LockedBalance   int64 `json:"locked_balance"`
	TodayPurchased  int64 `json:"today_purchased"`
	TodayRemaining  int64 `json:"today_remaining"`
	WalletRemaining int64 `json:"wallet_remaining"`
	CanTrade        bool  `json:"can_trade"`
}
