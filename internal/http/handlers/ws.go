package handlers

import (
	"context"
	"net/http"
	"os"

	"rewards_webapp/internal/logger"
	"rewards_webapp/internal/service"
	"rewards_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ClaimWS upgrades to a websocket that pushes claim status snapshots so the
// client countdown stays in sync with the server.
func (h *Handler) ClaimWS(c *gin.Context) {
	// JWT from query
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade error", "error", err)
		return
	}

	source := func(ctx context.Context, uid int64) (any, error) {
		return h.ClaimService.Status(ctx, uid)
	}

	client := ws.NewClient(userID, conn, source)
	go client.Run()
}
