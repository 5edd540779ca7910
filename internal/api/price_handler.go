package api

import (
	"context"
	"net/http"
	"runtime/debug"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/price"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type priceResp struct {
	Success   bool    `json:"success"`
	Price     float64 `json:"price"` // USD
	Change24h float64 `json:"change24h"`
	Cached    bool    `json:"cached"`
}

// GetSolPrice SOL 行情，60s 缓存兜住上游免费接口的频率限制
func (h *Handlers) GetSolPrice(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase  = 60300
		ErrCodePanic = ErrCodeBase + 32
		ErrCodeFetch = ErrCodeBase + 1
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in GetSolPrice: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	if v, ok := h.cache.Get(cache.KeySolPrice); ok {
		q := v.(price.Quote)
		httpx.OkJson(w, priceResp{
			Success:   true,
			Price:     q.Price,
			Change24h: q.Change24h,
			Cached:    true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Price.Timeout)
	defer cancel()
	q, err := h.price.Fetch(ctx)
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeFetch, err, "Failed to fetch SOL price"))
		return
	}
	h.cache.Set(cache.KeySolPrice, q, h.cfg.Cache.PriceTTL)

	httpx.OkJson(w, priceResp{
		Success:   true,
		Price:     q.Price,
		Change24h: q.Change24h,
		Cached:    false,
	})
}
