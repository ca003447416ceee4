package handlers

import (
	"errors"
	"net/http"

	"rewards_webapp/internal/http/middleware"
	"rewards_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ClaimStatus returns the claim countdown state. The client-side countdown is
// advisory only and must resynchronize from this endpoint.
func (h *Handler) ClaimStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.ClaimService.Status(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Claim executes the cooldown-gated reward claim.
func (h *Handler) Claim(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.ClaimService.Claim(c.Request.Context(), userID)
	if err != nil {
		var notReady *service.NotReadyError
		if errors.As(err, &notReady) {
			middleware.ClaimsTotal.WithLabelValues("not_ready").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "claim not ready",
				"remaining_seconds": notReady.RemainingSeconds(),
			})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		middleware.ClaimsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	middleware.ClaimsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"balance":      result.Balance,
		"total_earned": result.TotalEarned,
	})
}
