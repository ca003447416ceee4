package domain

import "time"

// Wallet represents a linked TON wallet
type Wallet struct {
	ID                 int64     `db:"id" json:"id"`
	UserID             int64     `db:"user_id" json:"user_id"`
	Address            string    `db:"address" json:"address"`
	RawAddress         string    `db:"raw_address" json:"raw_address,omitempty"`
	LinkedAt           time.Time `db:"linked_at" json:"linked_at"`
	IsVerified         bool      `db:"is_verified" json:"is_verified"`
	LastProofTimestamp int64     `db:"last_proof_timestamp" json:"last_proof_timestamp,omitempty"`
}

// Deposit represents an incoming TON deposit that funds the spendable
// TON balance used by trades.
type Deposit struct {
	ID            int64         `db:"id" json:"id"`
	UserID        int64         `db:"user_id" json:"user_id"`
	WalletAddress string        `db:"wallet_address" json:"wallet_address"`
	AmountNano    int64         `db:"amount_nano" json:"amount_nano"`
	CreditedNano  int64         `db:"credited_nano" json:"credited_nano"`
	TxHash        string        `db:"tx_hash" json:"tx_hash"`
	TxLt          int64         `db:"tx_lt" json:"tx_lt,omitempty"`
	Status        DepositStatus `db:"status" json:"status"`
	Memo          string        `db:"memo" json:"memo,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	ConfirmedAt   *time.Time    `db:"confirmed_at" json:"confirmed_at,omitempty"`
	Processed     bool          `db:"processed" json:"processed"`
}

// DepositStatus represents deposit processing status
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusConfirmed DepositStatus = "confirmed"
	DepositStatusFailed    DepositStatus = "failed"
	DepositStatusExpired   DepositStatus = "expired"
)

// DepositInfo is returned to user when they want to deposit
type DepositInfo struct {
	PlatformAddress string `json:"platform_address"`
	Memo            string `json:"memo"`
	MinAmountTON    string `json:"min_amount_ton"`
}
