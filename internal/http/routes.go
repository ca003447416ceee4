package http

import (
	"os"
	"strconv"
	"time"

	"rewards_webapp/internal/http/handlers"
	"rewards_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, botToken string, version string) {
	h := handlers.NewHandler(db, botToken)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 30
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Per-user limit on write endpoints (claims, trades, deposits)
	writeRateLimit := 20
	if v := os.Getenv("WRITE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			writeRateLimit = n
		}
	}
	writeRL := middleware.UserRateLimit(writeRateLimit, time.Minute)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth
	v1.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// User profile
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/transactions", middleware.JWT(), h.Transactions)

	// Claim (24h reward countdown)
	v1.GET("/claim/status", middleware.JWT(), h.ClaimStatus)
	v1.POST("/claim", middleware.JWT(), writeRL, h.Claim)

	// Trade (TON -> locked tokens)
	v1.GET("/trade/config", h.TradeConfig)
	v1.GET("/trade/stats", middleware.JWT(), h.TradeStats)
	v1.POST("/trade", middleware.JWT(), writeRL, h.Trade)
	v1.GET("/trades", middleware.JWT(), h.TradeHistory)

	// TON Connect & deposits
	tonHandler := handlers.NewTonHandler(h)
	tonGroup := v1.Group("/ton")
	{
		tonGroup.GET("/config", tonHandler.GetTonConfig)
		tonGroup.GET("/proof-payload", middleware.JWT(), tonHandler.GetProofPayload)
		tonGroup.GET("/wallet", middleware.JWT(), tonHandler.GetWallet)
		tonGroup.POST("/wallet/connect", middleware.JWT(), tonHandler.ConnectWallet)
		tonGroup.DELETE("/wallet", middleware.JWT(), tonHandler.DisconnectWallet)

		tonGroup.GET("/deposit/info", middleware.JWT(), tonHandler.GetDepositInfo)
		tonGroup.GET("/deposits", middleware.JWT(), tonHandler.GetDeposits)
		tonGroup.POST("/deposit/manual", middleware.JWT(), writeRL, tonHandler.RecordManualDeposit)
	}

	// WebSocket pushing claim countdown state to the client. Lives outside the
	// /api/v1 group, so upgrade attempts get the in-memory limiter instead.
	r.GET("/ws/claim", middleware.SimpleRateLimit(10, time.Minute), h.ClaimWS)

	// Frontend static files
	r.StaticFS("/assets", gin.Dir("../frontend", false))
	r.NoRoute(func(c *gin.Context) {
		c.File("../frontend/index.html")
	})
}
