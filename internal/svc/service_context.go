package svc

import (
	"fmt"
	"time"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/chain"
	"wallet-api-sol/internal/config"
	"wallet-api-sol/internal/limiter"
	"wallet-api-sol/internal/pkg/db"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/pkg/mq"
	"wallet-api-sol/internal/pkg/utils"
	"wallet-api-sol/internal/pkg/xredis"
	"wallet-api-sol/internal/price"
	"wallet-api-sol/internal/store"

	"github.com/nacos-group/nacos-sdk-go/v2/clients/naming_client"
)

// ServiceContext 聚合 API 服务的全部依赖，main 中构建一次后贯穿进程生命周期
type ServiceContext struct {
	Cfg         *config.ApiConfig
	DB          *db.DBClient
	Store       *store.Store
	Chain       *chain.Client
	Price       *price.Client
	Cache       *cache.Cache
	Limiter     *limiter.Limiter
	Kafka       *mq.KafkaProducer
	NacosClient naming_client.INamingClient
}

func NewServiceContext(c *config.ApiConfig) (*ServiceContext, error) {
	// 初始化数据库
	idleTime, _ := time.ParseDuration(c.Database.ConnMaxIdleTime)
	dbClient, err := db.NewDBClient(c.Database.DSN(), db.DBType(c.Database.Dialect), db.PoolOption{
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxIdleTime: idleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("init database failed: %w", err)
	}

	// 限流计数默认进程内，配置了 Redis 则多副本共享
	var limStore limiter.Store
	if len(c.Redis.Addr) > 0 {
		if err := xredis.SetupRedisFromConfigStruct(&c.Redis); err != nil {
			return nil, fmt.Errorf("init redis failed: %w", err)
		}
		limStore = limiter.NewRedisStore("")
	} else {
		limStore = limiter.NewMemoryStore()
	}

	// 可选的交易事件发布
	var producer *mq.KafkaProducer
	if c.Kafka.Enabled() {
		producer, err = mq.NewKafkaProducer(&c.Kafka)
		if err != nil {
			return nil, fmt.Errorf("init kafka producer failed: %w", err)
		}
	}

	// 可选的 Nacos 注册
	var nacosClient naming_client.INamingClient
	if c.Nacos.ServiceName != "" {
		nacosClient, err = NewNacosClient(&c.Nacos)
		if err != nil {
			return nil, fmt.Errorf("init nacos client failed: %w", err)
		}
	}

	return &ServiceContext{
		Cfg:         c,
		DB:          dbClient,
		Store:       store.New(dbClient.DB),
		Chain:       chain.New(c.Solana.RpcEndpoint),
		Price:       price.New(c.Price.Url, c.Price.Timeout),
		Cache:       cache.New(c.Cache.MaxEntries),
		Limiter:     limiter.New(limStore),
		Kafka:       producer,
		NacosClient: nacosClient,
	}, nil
}

// RegisterNacos 注册当前服务实例，未配置时为空操作
func (ctx *ServiceContext) RegisterNacos() error {
	if ctx.NacosClient == nil {
		return nil
	}
	ip, err := utils.GetLocalIP()
	if err != nil {
		return fmt.Errorf("get local ip failed: %w", err)
	}
	return RegisterNacosInstance(ctx.NacosClient, &ctx.Cfg.Nacos, ip, uint64(ctx.Cfg.Rest.Port))
}

// DeregisterNacos 注销当前服务实例
func (ctx *ServiceContext) DeregisterNacos() {
	if ctx.NacosClient == nil {
		return
	}
	ip, err := utils.GetLocalIP()
	if err != nil {
		logger.Warnf("get local ip failed, skip nacos deregister: %v", err)
		return
	}
	if err := DeregisterNacosInstance(ctx.NacosClient, &ctx.Cfg.Nacos, ip, uint64(ctx.Cfg.Rest.Port)); err != nil {
		logger.Warnf("nacos deregister failed: %v", err)
	}
}

// Close 释放持有的资源
func (ctx *ServiceContext) Close() {
	ctx.Cache.Close()
	if ctx.Kafka != nil {
		ctx.Kafka.Close()
	}
	if len(ctx.Cfg.Redis.Addr) > 0 {
		if err := xredis.Close(); err != nil {
			logger.Warnf("close redis failed: %v", err)
		}
	}
}
