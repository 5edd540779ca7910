package api

import (
	"context"
	"sync"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/config"
	"wallet-api-sol/internal/limiter"
	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/price"
	"wallet-api-sol/pkg/utils"

	"github.com/blocto/solana-go-sdk/types"
)

// ChainGateway 链上网关，*chain.Client 为生产实现
type ChainGateway interface {
	Balance(ctx context.Context, address string) (uint64, error)
	SendTransfer(ctx context.Context, from types.Account, to string, lamports uint64) (string, error)
	WaitForConfirmation(ctx context.Context, signature string) error
}

// TxStore 持久层网关，*store.Store 为生产实现
type TxStore interface {
	EnsureUser(ctx context.Context, publicKey string) (*model.User, error)
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	ListTransactions(ctx context.Context, publicKey string, page, limit int) ([]model.Transaction, int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountTransactions(ctx context.Context) (int64, error)
}

// PriceSource 行情来源，*price.Client 为生产实现
type PriceSource interface {
	Fetch(ctx context.Context) (price.Quote, error)
}

// EventPublisher 交易事件发布，可为 nil（未配置 kafka）
type EventPublisher interface {
	Publish(key string, payload []byte) error
}

const senderShards = 64

// senderLocks 按发送方地址分片的互斥锁。
// 余额校验到广播之间持锁，避免同一发送方并发发送时
// 双双读到过期余额、双双通过校验
type senderLocks [senderShards]sync.Mutex

func (l *senderLocks) forSender(sender string) *sync.Mutex {
	return &l[utils.ShardIndex(sender, senderShards)]
}

// Handlers 聚合全部 HTTP 处理函数的依赖
type Handlers struct {
	cfg    *config.ApiConfig
	store  TxStore
	chain  ChainGateway
	price  PriceSource
	cache  *cache.Cache
	lim    *limiter.Limiter
	events EventPublisher
	locks  senderLocks
	dev    bool
}

func NewHandlers(
	cfg *config.ApiConfig,
	store TxStore,
	chainGw ChainGateway,
	priceSrc PriceSource,
	c *cache.Cache,
	lim *limiter.Limiter,
	events EventPublisher,
) *Handlers {
	return &Handlers{
		cfg:    cfg,
		store:  store,
		chain:  chainGw,
		price:  priceSrc,
		cache:  c,
		lim:    lim,
		events: events,
		dev:    cfg.Mode == "dev",
	}
}
