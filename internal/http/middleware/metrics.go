package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
    RLRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Name: "rate_limiter_requests_total",
            Help: "Total requests seen by the rate limiter",
        },
        []string{"endpoint"},
    )
    RLBlocked = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Name: "rate_limiter_blocked_total",
            Help: "Total requests blocked by the rate limiter",
        },
        []string{"endpoint"},
    )
    ClaimsTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Name: "reward_claims_total",
            Help: "Claim attempts by outcome",
        },
        []string{"outcome"},
    )
    TradesTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Name: "token_trades_total",
            Help: "Trade attempts by outcome",
        },
        []string{"outcome"},
    )
)

func init() {
    prometheus.MustRegister(RLRequests)
    prometheus.MustRegister(RLBlocked)
    prometheus.MustRegister(ClaimsTotal)
    prometheus.MustRegister(TradesTotal)
}
