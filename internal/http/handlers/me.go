package handlers

import (
	"net/http"

	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/ton"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	repo := repository.NewUserRepository(h.DB)
	ctx := c.Request.Context()
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               user.ID,
		"tg_id":            user.TgID,
		"username":         user.Username,
		"first_name":       user.FirstName,
		"created_at":       user.CreatedAt,
		"balance":          user.Balance,
		"total_earned":     user.TotalEarned,
		"ton_balance_nano": user.TonBalanceNano,
		"ton_balance":      ton.NanoToTON(user.TonBalanceNano),
		"countdown_end":    user.CountdownEnd,
		"last_claim":       user.LastClaim,
	})
}
