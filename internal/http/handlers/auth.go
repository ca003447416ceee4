package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"rewards_webapp/internal/domain"
	"rewards_webapp/internal/repository"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/telegram"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
}

func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	// DEV MODE: пропускаем валидацию
	if os.Getenv("DEV_MODE") == "true" {
		var userId int64 = 12345

		if strings.Contains(req.InitData, "\"id\":") {
			start := strings.Index(req.InitData, "\"id\":") + 5
			end := start
			for end < len(req.InitData) && req.InitData[end] >= '0' && req.InitData[end] <= '9' {
				end++
			}
			if parsed, err := strconv.ParseInt(req.InitData[start:end], 10, 64); err == nil {
				userId = parsed
			}
		}

		h.authRespond(c, userId, fmt.Sprintf("testuser%d", userId), "Test")
		return
	}

	if len(req.InitData) > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data too long"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale telegram data"})
		return
	}

	if values.Get("user") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}

	tgUser, err := telegram.ParseUser(req.InitData)
	if err != nil || tgUser.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user json"})
		return
	}

	h.authRespond(c, tgUser.ID, tgUser.Username, tgUser.FirstName)
}

// authRespond finds or registers the account and issues a JWT. New accounts
// start with the claim countdown already running.
func (h *Handler) authRespond(c *gin.Context, tgID int64, username, firstName string) {
	repo := repository.NewUserRepository(h.DB)
	ctx := c.Request.Context()

	user, err := repo.GetByTgID(ctx, tgID)
	if err != nil {
		user = &domain.User{
			TgID:      tgID,
			Username:  username,
			FirstName: firstName,
		}

		if err := repo.Create(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"tg_id":      user.TgID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"balance":    user.Balance,
		},
	})
}
