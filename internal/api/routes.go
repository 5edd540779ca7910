package api

import (
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest"
)

// sendRouteTimeout 发送接口单独放宽：广播 + 等确认可能超过全局超时
const sendRouteTimeout = 60 * time.Second

// RegisterRoutes 挂载全部路由。发送接口 10 次/分钟，
// 读接口 100 次/分钟，探活不限流
func (h *Handlers) RegisterRoutes(server *rest.Server) {
	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodPost,
			Path:    "/api/transactions/send",
			Handler: h.rateLimited(h.cfg.RateLimit.Send, h.SendTransaction),
		},
	}, rest.WithTimeout(sendRouteTimeout))

	server.AddRoutes([]rest.Route{
		{
			Method:  http.MethodGet,
			Path:    "/api/balance/:publicKey",
			Handler: h.rateLimited(h.cfg.RateLimit.Read, h.GetBalance),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/sol-price",
			Handler: h.rateLimited(h.cfg.RateLimit.Read, h.GetSolPrice),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/stats",
			Handler: h.rateLimited(h.cfg.RateLimit.Read, h.GetStats),
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/users",
			Handler: h.rateLimited(h.cfg.RateLimit.Read, h.CreateUser),
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/transactions/:publicKey",
			Handler: h.rateLimited(h.cfg.RateLimit.Read, h.GetTransactions),
		},
		{
			Method:  http.MethodGet,
			Path:    "/health",
			Handler: h.Health,
		},
	})
}
