package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof" // pprof 注册到 DefaultServeMux
	"time"

	"wallet-api-sol/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MonitorServer 独立端口的监控服务，聚合 metrics / pprof / 健康检查
type MonitorServer struct {
	port   int
	server *http.Server
}

func NewMonitorServer(port int) *MonitorServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", &ProfileHandler{})

	return &MonitorServer{
		port: port,
		server: &http.Server{
			Addr:    fmt.Sprintf("0.0.0.0:%d", port),
			Handler: mux,
		},
	}
}

func (m *MonitorServer) Start() {
	go func() {
		logger.Infof("[Monitor] starting on port %d", m.port)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("监控服务启动失败: %v", err)
		}
	}()
}

func (m *MonitorServer) Stop() {
	logger.Infof("[Monitor] shutting down")
	_ = m.server.Shutdown(context.Background())
}

// =================== 处理健康检查 ===================

type ProfileHandler struct{}

func (s *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz", "/health/readiness", "/health/liveness":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		resp := map[string]interface{}{
			"status":    "UP",
			"checkTime": time.Now().In(time.Local).Format("2006-01-02T15:04:05.9999999"),
			"details":   "Application is running normally",
		}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		// pprof 等默认注册在 DefaultServeMux 上
		http.DefaultServeMux.ServeHTTP(w, r)
	}
}
