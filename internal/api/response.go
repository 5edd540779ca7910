package api

import (
	"errors"
	"net/http"

	"wallet-api-sol/internal/pkg/logger"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// genericErrMessage 生产模式下所有未知/上游错误的统一文案
const genericErrMessage = "An unexpected error occurred. Please try again later."

type errResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"` // 仅 dev 模式
}

type rateLimitResp struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// writeError 错误出口，按变体穷举映射。
// dev 模式透出上游错误详情，生产模式只返回通用文案
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		logger.Errorf("unhandled error: %v", err)
		httpx.WriteJson(w, http.StatusInternalServerError, errResp{
			Success: false,
			Error:   h.errMessage(genericErrMessage, err),
		})
		return
	}

	switch appErr.Kind {
	case KindValidation, KindDomain:
		// 校验/业务错误文案原样返回
		httpx.WriteJson(w, appErr.Status, errResp{
			Success: false,
			Error:   appErr.Message,
		})
	case KindUpstream:
		logger.Errorf("upstream error: %v", appErr)
		resp := errResp{Success: false, Error: appErr.Message}
		if !h.dev {
			resp.Error = genericErrMessage
		} else if cause := appErr.Unwrap(); cause != nil {
			resp.Details = cause.Error()
		}
		httpx.WriteJson(w, appErr.Status, resp)
	}
}

func (h *Handlers) errMessage(fallback string, err error) string {
	if h.dev && err != nil {
		return err.Error()
	}
	return fallback
}
