package ton

import (
	"math"
	"time"
)

const (
	// TokensPerTON is the fixed conversion rate for trades: 1 TON = 2000 tokens.
	TokensPerTON = 2000

	// NanoTON is the smallest TON unit (1 TON = 10^9 nanoTON)
	NanoTON = 1_000_000_000

	// RewardAmount is how many tokens one successful claim credits.
	RewardAmount = 30

	// ClaimCooldown is the window during which repeat claims are rejected.
	ClaimCooldown = 24 * time.Hour

	// MinTradeNano is the minimum per-trade amount (0.1 TON).
	MinTradeNano = NanoTON / 10

	// MaxTradeNano is the maximum per-trade amount (2 TON).
	MaxTradeNano = 2 * NanoTON

	// DailyTradeLimit caps tokens bought per UTC calendar day.
	DailyTradeLimit = 5_000

	// WalletMaxTokens caps the lifetime locked token balance per account.
	WalletMaxTokens = 100_000

	// MinDepositNano is the minimum deposit amount in nanoTON (0.1 TON)
	MinDepositNano = NanoTON / 10

	// ProofTTL is how long a TON Connect proof is valid
	ProofTTL = 15 * time.Minute

	// DepositCheckInterval is how often to check for new deposits
	DepositCheckInterval = 30 * time.Second
)

// Network represents TON network type
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// TON API endpoints
const (
	TonAPIMainnet = "https://tonapi.io/v2"
	TonAPITestnet = "https://testnet.tonapi.io/v2"
)

// TONToNano converts TON to nanoTON, rounding to the nearest nano so decimal
// inputs like 0.3 do not lose a unit to float truncation.
func TONToNano(ton float64) int64 {
	return int64(math.Round(ton * NanoTON))
}

// NanoToTON converts nanoTON to TON
func NanoToTON(nano int64) float64 {
	return float64(nano) / NanoTON
}

// NanoToTokens converts a nanoTON amount to tokens at the fixed rate.
// Integer math keeps the conversion exact for whole-nano inputs.
func NanoToTokens(nano int64) int64 {
	return nano * TokensPerTON / NanoTON
}

// TokensToNano converts tokens back to nanoTON at the fixed rate.
func TokensToNano(tokens int64) int64 {
	return tokens * NanoTON / TokensPerTON
}
