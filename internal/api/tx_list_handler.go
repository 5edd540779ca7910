package api

import (
	"errors"
	"net/http"
	"runtime/debug"

	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/store"
	"wallet-api-sol/internal/validate"

	"github.com/zeromicro/go-zero/rest/httpx"
)

const maxPageLimit = 100

type txListReq struct {
	PublicKey string `path:"publicKey"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
}

type txListResp struct {
	Success      bool                `json:"success"`
	Transactions []model.Transaction `json:"transactions"`
	Total        int64               `json:"total"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	TotalPages   int64               `json:"totalPages"`
}

// GetTransactions 某地址的交易历史，按创建时间倒序分页
func (h *Handlers) GetTransactions(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase     = 60600
		ErrCodePanic    = ErrCodeBase + 32
		ErrCodeParse    = ErrCodeBase + 1
		ErrCodeAddress  = ErrCodeBase + 2
		ErrCodeNotFound = ErrCodeBase + 3
		ErrCodeQuery    = ErrCodeBase + 4
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in GetTransactions: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	var req txListReq
	if err := httpx.Parse(r, &req); err != nil {
		h.writeError(w, validationErr(ErrCodeParse, "Invalid request"))
		return
	}
	address := validate.Sanitize(req.PublicKey)
	if !validate.IsValidAddress(address) {
		h.writeError(w, validationErr(ErrCodeAddress, "Invalid public key"))
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	if req.Limit > maxPageLimit {
		req.Limit = maxPageLimit
	}

	txs, total, err := h.store.ListTransactions(r.Context(), address, req.Page, req.Limit)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.writeError(w, notFoundErr(ErrCodeNotFound, "User not found"))
			return
		}
		h.writeError(w, upstreamErr(ErrCodeQuery, err, "Failed to fetch transactions"))
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}

	totalPages := (total + int64(req.Limit) - 1) / int64(req.Limit)
	httpx.OkJson(w, txListResp{
		Success:      true,
		Transactions: txs,
		Total:        total,
		Page:         req.Page,
		Limit:        req.Limit,
		TotalPages:   totalPages,
	})
}
