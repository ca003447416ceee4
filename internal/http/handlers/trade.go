package handlers

import (
	"errors"
	"net/http"

	"rewards_webapp/internal/http/middleware"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ton"

	"github.com/gin-gonic/gin"
)

// TradeConfig returns the fixed conversion rate and limits. Public endpoint.
func (h *Handler) TradeConfig(c *gin.Context) {
	limits := h.TradeService.Limits()
	c.JSON(http.StatusOK, gin.H{
		"rate":        limits.Rate,
		"min_ton":     ton.NanoToTON(limits.MinNano),
		"max_ton":     ton.NanoToTON(limits.MaxNano),
		"daily_limit": limits.DailyLimit,
		"wallet_max":  limits.WalletMax,
	})
}

// TradeStats returns per-account limit headroom.
func (h *Handler) TradeStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.TradeService.Stats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// TradeRequest is the trade submission body.
type TradeRequest struct {
	TonAmount float64 `json:"ton_amount" binding:"required"`
}

// Trade converts TON into locked tokens subject to the fixed limits.
func (h *Handler) Trade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.TradeService.Execute(c.Request.Context(), userID, req.TonAmount)
	if err != nil {
		h.tradeError(c, err)
		return
	}

	middleware.TradesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"trade_id":           result.TradeID,
		"tokens_received":    result.TokensReceived,
		"new_locked_balance": result.NewLockedBalance,
		"ton_balance_nano":   result.NewTonBalance,
		"created_at":         result.CreatedAt,
	})
}

// TradeHistory returns the account's trades, newest first.
func (h *Handler) TradeHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	trades, err := h.TradeService.History(c.Request.Context(), userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

// tradeError maps service rejections to JSON payloads carrying the actionable
// headroom. Every rejection reaches the client with zero state changed.
func (h *Handler) tradeError(c *gin.Context, err error) {
	var (
		outOfRange  *service.OutOfRangeError
		walletLimit *service.WalletLimitError
		dailyLimit  *service.DailyLimitError
	)

	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		middleware.TradesTotal.WithLabelValues("invalid_amount").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
	case errors.As(err, &outOfRange):
		middleware.TradesTotal.WithLabelValues("out_of_range").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "amount out of range",
			"min_ton": ton.NanoToTON(outOfRange.MinNano),
			"max_ton": ton.NanoToTON(outOfRange.MaxNano),
		})
	case errors.Is(err, service.ErrInsufficientFunds):
		middleware.TradesTotal.WithLabelValues("insufficient_funds").Inc()
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient funds"})
	case errors.As(err, &walletLimit):
		middleware.TradesTotal.WithLabelValues("wallet_limit").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "wallet limit exceeded",
			"remaining": walletLimit.Remaining,
		})
	case errors.As(err, &dailyLimit):
		middleware.TradesTotal.WithLabelValues("daily_limit").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "daily limit exceeded",
			"remaining_today": dailyLimit.Remaining,
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrStorageConflict):
		middleware.TradesTotal.WithLabelValues("conflict").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "please retry"})
	default:
		middleware.TradesTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}
