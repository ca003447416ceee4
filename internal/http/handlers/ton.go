package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"

	"github.com/gin-gonic/gin"
)

// TonHandler handles TON wallet and deposit endpoints
type TonHandler struct {
	WalletRepo     *repository.WalletRepository
	DepositRepo    *repository.DepositRepository
	DepositService *service.DepositService
	TonClient      *ton.Client
	PlatformWallet string
	AllowedDomain  string
}

// NewTonHandler creates a new TON handler
func NewTonHandler(h *Handler) *TonHandler {
	network := ton.NetworkMainnet
	if os.Getenv("TON_NETWORK") == "testnet" {
		network = ton.NetworkTestnet
	}

	return &TonHandler{
		WalletRepo:     repository.NewWalletRepository(h.DB),
		DepositRepo:    repository.NewDepositRepository(h.DB),
		DepositService: h.DepositService,
		TonClient:      ton.NewClient(network, os.Getenv("TON_API_KEY")),
		PlatformWallet: os.Getenv("TON_PLATFORM_WALLET"),
		AllowedDomain:  os.Getenv("TON_ALLOWED_DOMAIN"),
	}
}

// GetTonConfig returns public TON settings for the frontend
func (h *TonHandler) GetTonConfig(c *gin.Context) {
	network := "mainnet"
	if os.Getenv("TON_NETWORK") == "testnet" {
		network = "testnet"
	}

	c.JSON(http.StatusOK, gin.H{
		"network":          network,
		"platform_address": h.PlatformWallet,
		"tokens_per_ton":   ton.TokensPerTON,
		"min_deposit_ton":  ton.NanoToTON(ton.MinDepositNano),
	})
}

// GetProofPayload issues a fresh challenge payload for TON Connect proof
func (h *TonHandler) GetProofPayload(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payload": ton.GeneratePayload()})
}

// ConnectWalletRequest represents wallet connection request
type ConnectWalletRequest struct {
	Account ton.WalletAccount `json:"account"`
	Proof   ton.ConnectProof  `json:"proof"`
}

// ConnectWallet links a TON wallet to user account
func (h *TonHandler) ConnectWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()

	// Check if user already has a wallet
	linked, err := h.WalletRepo.Exists(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if linked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet already linked"})
		return
	}

	// Validate address format
	if !ton.ValidateAddress(req.Account.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	// Check if address is already linked to another user
	addressExists, err := h.WalletRepo.AddressExists(ctx, req.Account.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if addressExists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet already linked to another account"})
		return
	}

	// Verify TON Connect proof (skip in dev mode)
	if os.Getenv("DEV_MODE") != "true" && h.AllowedDomain != "" {
		if err := ton.VerifyProof(req.Account, req.Proof, h.AllowedDomain); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "proof verification failed: " + err.Error()})
			return
		}
	}

	// Normalize address
	rawAddress, _ := ton.NormalizeAddress(req.Account.Address)

	wallet := &domain.Wallet{
		UserID:             userID,
		Address:            req.Account.Address,
		RawAddress:         rawAddress,
		IsVerified:         true,
		LastProofTimestamp: req.Proof.Timestamp,
	}
	if err := h.WalletRepo.Create(ctx, wallet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// GetWallet returns the linked wallet and its on-chain balance. The chain is
// advisory: an unreachable TON API reports balance 0 instead of failing.
func (h *TonHandler) GetWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.WalletRepo.GetByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if wallet == nil {
		c.JSON(http.StatusOK, gin.H{"wallet": nil})
		return
	}

	chainBalance := h.TonClient.SafeBalance(ctx, wallet.Address)
	c.JSON(http.StatusOK, gin.H{
		"wallet":             wallet,
		"chain_balance_nano": chainBalance,
		"chain_balance_ton":  ton.NanoToTON(chainBalance),
	})
}

// DisconnectWallet removes wallet link
func (h *TonHandler) DisconnectWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.WalletRepo.Delete(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// GetDepositInfo tells the user where to send TON
func (h *TonHandler) GetDepositInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, domain.DepositInfo{
		PlatformAddress: h.PlatformWallet,
		Memo:            depositMemo(userID),
		MinAmountTON:    "0.1",
	})
}

// GetDeposits returns recent deposits for the user
func (h *TonHandler) GetDeposits(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deposits, err := h.DepositRepo.GetByUserID(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

// ManualDepositRequest is the body for the dev/admin credit path
type ManualDepositRequest struct {
	AmountNano int64  `json:"amount_nano" binding:"required,min=1"`
	TxHash     string `json:"tx_hash"`
}

// RecordManualDeposit credits a deposit manually (for testing or admin)
func (h *TonHandler) RecordManualDeposit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ManualDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()

	// Optional on-chain check: the claimed tx must exist before crediting
	if os.Getenv("TON_VERIFY_DEPOSITS") == "true" && req.TxHash != "" {
		tx, err := h.TonClient.WaitForTransaction(ctx, req.TxHash, 15*time.Second)
		if err != nil || tx == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction not found on chain"})
			return
		}
	}

	address := ""
	wallet, err := h.WalletRepo.GetByUserID(ctx, userID)
	if err == nil && wallet != nil {
		address = wallet.Address
	}

	deposit, newBalance, err := h.DepositService.Credit(ctx, userID, address, req.AmountNano, req.TxHash, depositMemo(userID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDepositTooSmall):
			c.JSON(http.StatusBadRequest, gin.H{"error": "deposit below minimum"})
		case errors.Is(err, service.ErrDuplicateDeposit):
			c.JSON(http.StatusBadRequest, gin.H{"error": "deposit already recorded"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record deposit"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deposit":          deposit,
		"ton_balance_nano": newBalance,
	})
}

// depositMemo is the comment users attach so incoming transfers map back to
// an account.
func depositMemo(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10)
}
