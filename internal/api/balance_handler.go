package api

import (
	"context"
	"net/http"
	"runtime/debug"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/chain"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/validate"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type balanceReq struct {
	PublicKey string `path:"publicKey"`
}

type balanceResp struct {
	Success  bool    `json:"success"`
	Balance  float64 `json:"balance"` // SOL
	Lamports uint64  `json:"lamports"`
	Cached   bool    `json:"cached"`
}

// GetBalance 查询地址余额，10s 缓存
func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase    = 60200
		ErrCodePanic   = ErrCodeBase + 32
		ErrCodeParse   = ErrCodeBase + 1
		ErrCodeAddress = ErrCodeBase + 2
		ErrCodeQuery   = ErrCodeBase + 3
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in GetBalance: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	var req balanceReq
	if err := httpx.Parse(r, &req); err != nil {
		h.writeError(w, validationErr(ErrCodeParse, "Invalid request"))
		return
	}
	address := validate.Sanitize(req.PublicKey)
	if !validate.IsValidAddress(address) {
		h.writeError(w, validationErr(ErrCodeAddress, "Invalid public key"))
		return
	}

	if v, ok := h.cache.Get(cache.BalanceKey(address)); ok {
		lamports := v.(uint64)
		httpx.OkJson(w, balanceResp{
			Success:  true,
			Balance:  chain.LamportsToSol(lamports),
			Lamports: lamports,
			Cached:   true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Solana.BalanceTimeout)
	defer cancel()
	lamports, err := h.chain.Balance(ctx, address)
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeQuery, err, "Failed to fetch balance"))
		return
	}
	h.cache.Set(cache.BalanceKey(address), lamports, h.cfg.Cache.BalanceTTL)

	httpx.OkJson(w, balanceResp{
		Success:  true,
		Balance:  chain.LamportsToSol(lamports),
		Lamports: lamports,
		Cached:   false,
	})
}
