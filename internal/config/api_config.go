package config

import (
	"time"

	"wallet-api-sol/internal/pkg/mq"
	"wallet-api-sol/internal/pkg/xredis"

	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
)

// RestConfig HTTP 服务相关配置
type RestConfig struct {
	Name         string `yaml:"name"`          // 服务名
	Port         int    `yaml:"port"`          // 监听端口
	Timeout      int64  `yaml:"timeout"`       // 全局请求超时（毫秒），发送接口会在路由上单独放宽
	MaxConns     int    `yaml:"max_conns"`     // 最大并发连接数，0 表示不限制
	CpuThreshold int64  `yaml:"cpu_threshold"` // CPU 过载保护阈值（千分比），0 表示关闭
}

func (c *RestConfig) ToRestConf(mode string) rest.RestConf {
	rc := rest.RestConf{
		Host:         "0.0.0.0",
		Port:         c.Port,
		Timeout:      c.Timeout,
		MaxConns:     c.MaxConns,
		CpuThreshold: c.CpuThreshold,
	}
	rc.Name = c.Name
	if mode == "dev" {
		rc.Mode = service.DevMode
	} else {
		rc.Mode = service.ProMode
	}
	// 框架日志统一走 logx → ZapWriter 桥接
	rc.Log.Mode = "console"
	return rc
}

// SolanaConf 链上 RPC 相关配置
type SolanaConf struct {
	RpcEndpoint    string        `yaml:"rpc_endpoint"`    // RPC 节点地址
	BalanceTimeout time.Duration `yaml:"balance_timeout"` // 余额查询超时
	SendTimeout    time.Duration `yaml:"send_timeout"`    // 广播超时
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"` // 确认等待上限
}

// PriceConf 第三方行情接口配置
type PriceConf struct {
	Url     string        `yaml:"url"`     // 为空时使用 CoinGecko 默认地址
	Timeout time.Duration `yaml:"timeout"` // 单次请求超时
}

// RateLimitRule 单个接口的限流参数
type RateLimitRule struct {
	MaxRequests int           `yaml:"max_requests"` // 窗口内最大请求数
	Window      time.Duration `yaml:"window"`       // 固定窗口长度
}

type RateLimitConf struct {
	Send RateLimitRule `yaml:"send"` // 交易发送接口
	Read RateLimitRule `yaml:"read"` // 余额/行情/统计等读接口
}

// CacheConf 进程内 TTL 缓存配置
type CacheConf struct {
	MaxEntries int           `yaml:"max_entries"` // 缓存条目上限
	BalanceTTL time.Duration `yaml:"balance_ttl"` // 余额缓存
	PriceTTL   time.Duration `yaml:"price_ttl"`   // SOL 价格缓存
	StatsTTL   time.Duration `yaml:"stats_ttl"`   // 聚合统计缓存
}

type ApiConfig struct {
	Rest           RestConfig           `yaml:"rest"`            // HTTP 服务配置
	Mode           string               `yaml:"mode"`            // "dev" 或 "prod"，控制错误详情是否透出
	FrontendOrigin string               `yaml:"frontend_origin"` // 允许跨域的前端地址
	Solana         SolanaConf           `yaml:"solana"`          // 链上 RPC 配置
	Price          PriceConf            `yaml:"price"`           // 行情接口配置
	Database       DatabaseConf         `yaml:"database"`        // 关系库配置
	RateLimit      RateLimitConf        `yaml:"rate_limit"`      // 限流配置
	Cache          CacheConf            `yaml:"cache"`           // 缓存配置
	Redis          xredis.RedisConfig   `yaml:"redis"`           // 可选，addr 非空时限流窗口落 Redis
	Kafka          mq.KafkaProducerConf `yaml:"kafka"`           // 可选，brokers 非空时发布交易事件
	Nacos          NacosConfig          `yaml:"nacos"`           // 可选，service_name 非空时注册
	Monitor        MonitorConfig        `yaml:"monitor"`         // 监控配置
	LogConf        LogConfig            `yaml:"logger"`          // 日志配置
}

// EnsureDefaults 补齐未配置的字段
func (c *ApiConfig) EnsureDefaults() {
	if c.Rest.Name == "" {
		c.Rest.Name = "wallet-api"
	}
	if c.Rest.Port == 0 {
		c.Rest.Port = 3001
	}
	if c.Rest.Timeout == 0 {
		c.Rest.Timeout = 10000
	}
	if c.Mode == "" {
		c.Mode = "prod"
	}
	if c.Solana.RpcEndpoint == "" {
		c.Solana.RpcEndpoint = "https://api.mainnet-beta.solana.com"
	}
	if c.Solana.BalanceTimeout == 0 {
		c.Solana.BalanceTimeout = 10 * time.Second
	}
	if c.Solana.SendTimeout == 0 {
		c.Solana.SendTimeout = 30 * time.Second
	}
	if c.Solana.ConfirmTimeout == 0 {
		c.Solana.ConfirmTimeout = 30 * time.Second
	}
	if c.Price.Timeout == 0 {
		c.Price.Timeout = 10 * time.Second
	}
	if c.RateLimit.Send.MaxRequests == 0 {
		c.RateLimit.Send = RateLimitRule{MaxRequests: 10, Window: time.Minute}
	}
	if c.RateLimit.Read.MaxRequests == 0 {
		c.RateLimit.Read = RateLimitRule{MaxRequests: 100, Window: time.Minute}
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 10000
	}
	if c.Cache.BalanceTTL == 0 {
		c.Cache.BalanceTTL = 10 * time.Second
	}
	if c.Cache.PriceTTL == 0 {
		c.Cache.PriceTTL = 60 * time.Second
	}
	if c.Cache.StatsTTL == 0 {
		c.Cache.StatsTTL = 30 * time.Second
	}
}
