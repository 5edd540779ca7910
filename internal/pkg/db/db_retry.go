package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-api-sol/internal/pkg/logger"
)

// RetryWithBackoff retries the given operation with exponential backoff.
// Delay pattern: 100ms, 400ms, 1s, 2s, 5s x N
// 只用于建表/迁移这类幂等操作，请求主链路不做自动重试
func RetryWithBackoff(ctx context.Context, maxRetries int, op func() error) error {
	delays := []time.Duration{
		100 * time.Millisecond,
		400 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		5 * time.Second,
	}

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err() // 主动取消，不再重试
		default:
		}

		err = op()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		delay := delays[min(attempt, len(delays)-1)]

		// 日志放在此处，避免第一次 op() 之前就打印
		logger.Warnf("retrying after error (attempt=%d, delay=%s): %v", attempt+1, delay, err)

		time.Sleep(delay)
	}

	return fmt.Errorf("retry failed after %d attempts: %w", maxRetries, err)
}
