package domain

import "time"

type User struct {
	ID        int64     `db:"id"`
	TgID      int64     `db:"tg_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	CreatedAt time.Time `db:"created_at"`

	// Balance holds reward tokens accumulated from timed claims.
	Balance int64 `db:"balance" json:"balance"`
	// TotalEarned is the lifetime sum of claimed rewards; it never decreases.
	TotalEarned int64 `db:"total_earned" json:"total_earned"`

	// TonBalanceNano is the spendable TON balance in nanoTON, funded by deposits.
	TonBalanceNano int64 `db:"ton_balance_nano" json:"ton_balance_nano"`

	// CountdownEnd is always LastClaim + the claim cooldown; the two are
	// written together in a single statement.
	LastClaim    *time.Time `db:"last_claim" json:"last_claim,omitempty"`
	CountdownEnd time.Time  `db:"countdown_end" json:"countdown_end"`
}
