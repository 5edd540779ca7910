package api

import (
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest/httpx"
)

type healthResp struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Health 探活接口，不限流
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OkJson(w, healthResp{
		Status:    "ok",
		Service:   h.cfg.Rest.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
