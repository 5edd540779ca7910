package main

import (
	"flag"
	"fmt"
	"runtime/debug"

	"wallet-api-sol/internal/api"
	"wallet-api-sol/internal/config"
	"wallet-api-sol/internal/pkg/configloader"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/pkg/monitor"
	"wallet-api-sol/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/wallet-api.yaml", "the config file")

func main() {
	// 捕获 panic，打印堆栈信息
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()
	defer logger.Sync()

	flag.Parse()
	logger.Infof("Loading config from %s", *configFile)

	// ========== 1. 加载配置 ==========
	var c config.ApiConfig
	if err := configloader.LoadConfig(*configFile, &c); err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}
	c.EnsureDefaults()

	// ========== 2. 初始化日志 ==========
	logger.InitLogger(c.LogConf.ToLogOption())
	logx.SetWriter(logger.ZapWriter{})

	// ========== 3. 初始化上下文 ==========
	svcCtx, err := svc.NewServiceContext(&c)
	if err != nil {
		panic(fmt.Sprintf("init service context failed: %v", err))
	}
	defer svcCtx.Close()

	// ========== 4. 构建服务组 ==========
	sg := zerosvc.NewServiceGroup()

	// 添加 Prometheus + pprof 监控服务（可选）
	if c.Monitor.Port > 0 {
		sg.Add(monitor.NewMonitorServer(c.Monitor.Port))
	}

	// ========== 5. 构建并挂载 HTTP 服务 ==========
	var opts []rest.RunOption
	if c.FrontendOrigin != "" {
		opts = append(opts, rest.WithCors(c.FrontendOrigin))
	}
	server := rest.MustNewServer(c.Rest.ToRestConf(c.Mode), opts...)
	handlers := api.NewHandlers(&c, svcCtx.Store, svcCtx.Chain, svcCtx.Price,
		svcCtx.Cache, svcCtx.Limiter, eventPublisher(svcCtx))
	handlers.RegisterRoutes(server)
	sg.Add(server)

	// ========== 6. 注册到 Nacos ==========
	if err := svcCtx.RegisterNacos(); err != nil {
		panic(fmt.Sprintf("register nacos failed: %v", err))
	}
	defer svcCtx.DeregisterNacos()

	// ========== 7. 启动服务 ==========
	logger.Infof("wallet api started, port: %d, rpc endpoint: %s", c.Rest.Port, c.Solana.RpcEndpoint)
	sg.Start()
}

// eventPublisher 未配置 kafka 时必须传 nil 接口，
// 直接传 *mq.KafkaProducer 的 nil 指针会绕过 handler 的判空
func eventPublisher(svcCtx *svc.ServiceContext) api.EventPublisher {
	if svcCtx.Kafka == nil {
		return nil
	}
	return svcCtx.Kafka
}
