package api

import (
	"net/http"
	"runtime/debug"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/pkg/logger"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type statsResp struct {
	Success           bool  `json:"success"`
	TotalUsers        int64 `json:"totalUsers"`
	TotalTransactions int64 `json:"totalTransactions"`
	Cached            bool  `json:"cached"`
}

// GetStats 全局统计，30s 缓存避免每次请求打两条 count
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase  = 60400
		ErrCodePanic = ErrCodeBase + 32
		ErrCodeQuery = ErrCodeBase + 1
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in GetStats: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	if v, ok := h.cache.Get(cache.KeyStats); ok {
		resp := v.(statsResp)
		resp.Cached = true
		httpx.OkJson(w, resp)
		return
	}

	users, err := h.store.CountUsers(r.Context())
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeQuery, err, "Failed to fetch stats"))
		return
	}
	txs, err := h.store.CountTransactions(r.Context())
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeQuery, err, "Failed to fetch stats"))
		return
	}

	resp := statsResp{
		Success:           true,
		TotalUsers:        users,
		TotalTransactions: txs,
	}
	h.cache.Set(cache.KeyStats, resp, h.cfg.Cache.StatsTTL)
	httpx.OkJson(w, resp)
}
