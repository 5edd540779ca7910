package api

import (
	"net"
	"net/http"
	"strings"

	"wallet-api-sol/internal/config"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// rateLimited 包装单个接口，按该接口自己的 (max, window) 限流。
// key 由客户端 IP 派生
func (h *Handlers) rateLimited(rule config.RateLimitRule, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(r.URL.Path).Inc()

		key := "rate_limit_" + clientIP(r)
		d := h.lim.Allow(r.Context(), key, rule.MaxRequests, rule.Window)
		if !d.Allowed {
			rateLimitedTotal.WithLabelValues(r.URL.Path).Inc()
			httpx.WriteJson(w, http.StatusTooManyRequests, rateLimitResp{
				Success:    false,
				Error:      "Too many requests. Please try again later.",
				RetryAfter: d.RetryAfter,
			})
			return
		}
		next(w, r)
	}
}

// clientIP 反代场景优先取 X-Forwarded-For 首个地址
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return "unknown"
}
