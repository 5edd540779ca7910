package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_api_requests_total",
		Help: "Requests per endpoint",
	}, []string{"path"})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_api_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"path"})

	broadcastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_api_broadcast_total",
		Help: "Transfer broadcasts by final status",
	}, []string{"status"})
)
