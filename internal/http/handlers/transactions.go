package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Transactions returns the account's audit ledger, newest first. Every claim,
// trade and deposit leaves exactly one entry here.
func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	txs, err := h.TransactionRepo.GetByUserID(c.Request.Context(), userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
