package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowRejectsAfterMax(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	l := New(s)
	ctx := context.Background()

	const maxReq = 10
	for i := 0; i < maxReq; i++ {
		d := l.Allow(ctx, "rate_limit_1.2.3.4", maxReq, time.Minute)
		require.True(t, d.Allowed, "request %d should pass", i+1)
	}

	// 窗口内第 11 次被拒，retryAfter 为剩余秒数
	now = now.Add(30 * time.Second)
	d := l.Allow(ctx, "rate_limit_1.2.3.4", maxReq, time.Minute)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30, d.RetryAfter)
}

func TestWindowResetsAfterExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	l := New(s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Allow(ctx, "k", 3, time.Minute)
	}
	d := l.Allow(ctx, "k", 3, time.Minute)
	require.False(t, d.Allowed)

	// 窗口过期后重新计数，count 回到 1
	now = now.Add(time.Minute + time.Second)
	d = l.Allow(ctx, "k", 3, time.Minute)
	assert.True(t, d.Allowed)

	rec := s.windows["k"]
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.count)
}

func TestRetryAfterRoundsUp(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	l := New(s)
	ctx := context.Background()

	l.Allow(ctx, "k", 1, time.Minute)

	now = now.Add(59*time.Second + 500*time.Millisecond)
	d := l.Allow(ctx, "k", 1, time.Minute)
	require.False(t, d.Allowed)
	assert.Equal(t, 1, d.RetryAfter)
}

func TestSweepDropsExpiredWindows(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	s.Allow(ctx, "a", 10, time.Second)
	s.Allow(ctx, "b", 10, time.Hour)

	now = now.Add(2 * time.Second)
	s.sweep()

	assert.NotContains(t, s.windows, "a")
	assert.Contains(t, s.windows, "b")
}

func TestKeysAreIndependent(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStoreWithClock(func() time.Time { return now })
	l := New(s)
	ctx := context.Background()

	l.Allow(ctx, "a", 1, time.Minute)
	d := l.Allow(ctx, "a", 1, time.Minute)
	require.False(t, d.Allowed)

	d = l.Allow(ctx, "b", 1, time.Minute)
	assert.True(t, d.Allowed)
}

type failingStore struct{}

func (failingStore) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (Decision, error) {
	return Decision{}, context.DeadlineExceeded
}

func TestStoreErrorFailsOpen(t *testing.T) {
	l := New(failingStore{})
	d := l.Allow(context.Background(), "k", 1, time.Minute)
	assert.True(t, d.Allowed)
}
