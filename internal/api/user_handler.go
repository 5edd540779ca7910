package api

import (
	"net/http"
	"runtime/debug"

	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/validate"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type createUserReq struct {
	PublicKey string `json:"publicKey"`
}

type createUserResp struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

// CreateUser 按公钥注册用户，幂等：已存在时返回已有记录
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase    = 60500
		ErrCodePanic   = ErrCodeBase + 32
		ErrCodeParse   = ErrCodeBase + 1
		ErrCodeAddress = ErrCodeBase + 2
		ErrCodeUpsert  = ErrCodeBase + 3
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in CreateUser: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	var req createUserReq
	if err := httpx.ParseJsonBody(r, &req); err != nil {
		h.writeError(w, validationErr(ErrCodeParse, "Invalid request body"))
		return
	}
	address := validate.Sanitize(req.PublicKey)
	if !validate.IsValidAddress(address) {
		h.writeError(w, validationErr(ErrCodeAddress, "Invalid public key"))
		return
	}

	user, err := h.store.EnsureUser(r.Context(), address)
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeUpsert, err, "Failed to create user"))
		return
	}

	httpx.OkJson(w, createUserResp{Success: true, User: user})
}
