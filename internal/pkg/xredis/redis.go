package xredis

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var defaultRedisClient *RedisClient

func SetupRedisFromConfigStruct(redisConfig *RedisConfig) error {
	if len(redisConfig.Addr) == 0 {
		return errors.New("redis addr is empty")
	}
	c, err := setupRedis(redisConfig)
	if err != nil {
		return err
	}
	defaultRedisClient = c
	return nil
}

func Close() error {
	return defaultRedisClient.close()
}

func GetClient() redis.UniversalClient {
	return defaultRedisClient.getClient()
}

func Get(ctx context.Context, key string) (string, bool, error) {
	begin := time.Now()
	result, err := defaultRedisClient.c.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	ObserveRedisLatency("get", time.Since(begin).Seconds())
	return result, true, nil
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	begin := time.Now()
	err := defaultRedisClient.c.Set(ctx, key, value, expiration).Err()
	if err != nil {
		return err
	}
	ObserveRedisLatency("set", time.Since(begin).Seconds())
	return nil
}

func Del(ctx context.Context, key string) error {
	begin := time.Now()
	err := defaultRedisClient.c.Del(ctx, key).Err()
	if err != nil {
		return err
	}
	ObserveRedisLatency("del", time.Since(begin).Seconds())
	return nil
}

func Incr(ctx context.Context, key string) (int64, error) {
	begin := time.Now()
	result, err := defaultRedisClient.c.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	ObserveRedisLatency("incr", time.Since(begin).Seconds())
	return result, nil
}

func Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return defaultRedisClient.c.Expire(ctx, key, expiration).Result()
}

func TTL(ctx context.Context, key string) (time.Duration, error) {
	return defaultRedisClient.c.TTL(ctx, key).Result()
}

func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	begin := time.Now()
	result, err := defaultRedisClient.c.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, err
	}
	ObserveRedisLatency("setNX", time.Since(begin).Seconds())
	return result, nil
}

var redisLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "redis_command_duration_seconds",
	Help:    "Redis command latency by command name",
	Buckets: prometheus.DefBuckets,
}, []string{"command"})

// ObserveRedisLatency 上报单条命令耗时
func ObserveRedisLatency(command string, latency float64) {
	redisLatency.WithLabelValues(command).Observe(latency)
}
