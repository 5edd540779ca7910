package limiter

import (
	"context"
	"time"

	"wallet-api-sol/internal/pkg/xredis"
)

// RedisStore 基于 Redis INCR + EXPIRE 的固定窗口计数，
// 多副本部署时共享限流状态。要求先完成 xredis 初始化
type RedisStore struct {
	prefix string
}

func NewRedisStore(prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rate_limit:"
	}
	return &RedisStore{prefix: prefix}
}

func (s *RedisStore) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (Decision, error) {
	k := s.prefix + key

	n, err := xredis.Incr(ctx, k)
	if err != nil {
		return Decision{}, err
	}
	// 第一次计数时设置窗口过期
	if n == 1 {
		if _, err := xredis.Expire(ctx, k, window); err != nil {
			return Decision{}, err
		}
	}

	if n > int64(maxRequests) {
		ttl, err := xredis.TTL(ctx, k)
		if err != nil {
			return Decision{}, err
		}
		retryAfter := int((ttl + time.Second - 1) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}
	return Decision{Allowed: true}, nil
}
