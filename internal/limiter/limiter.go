package limiter

import (
	"context"
	"time"

	"wallet-api-sol/internal/pkg/logger"
)

// Decision 单次限流判定结果
type Decision struct {
	Allowed    bool
	RetryAfter int // 拒绝时距窗口重置的秒数（向上取整）
}

// Store 固定窗口计数的存储后端。
// 默认用进程内存储，状态只对单进程有效（多副本部署时每个副本
// 独立计数，这是已知的扩容边界）；配置 Redis 后窗口计数共享
type Store interface {
	Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (Decision, error)
}

// Limiter 固定窗口限流器，每个接口在调用时传入自己的 (max, window)
type Limiter struct {
	store Store
}

func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow 存储后端出错时放行并告警，限流不应放大故障
func (l *Limiter) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) Decision {
	d, err := l.store.Allow(ctx, key, maxRequests, window)
	if err != nil {
		logger.Warnf("rate limit store error, allowing request: %v", err)
		return Decision{Allowed: true}
	}
	return d
}
