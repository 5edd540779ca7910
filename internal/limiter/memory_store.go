package limiter

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type window struct {
	count     int
	resetTime time.Time
}

// MemoryStore 进程内固定窗口计数：互斥锁保护的 map + 周期清理过期窗口
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	stop    chan struct{}
}

func NewMemoryStore() *MemoryStore {
	s := NewMemoryStoreWithClock(time.Now)
	go s.autoSweep()
	return s
}

// NewMemoryStoreWithClock 注入时钟，测试用，不启动后台清理
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     now,
		stop:    make(chan struct{}),
	}
}

func (s *MemoryStore) Allow(ctx context.Context, key string, maxRequests int, windowDur time.Duration) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.windows[key]

	// 无记录或窗口已过期：开新窗口，count=1，放行
	if !ok || now.After(rec.resetTime) {
		s.windows[key] = &window{
			count:     1,
			resetTime: now.Add(windowDur),
		}
		return Decision{Allowed: true}, nil
	}

	if rec.count >= maxRequests {
		retryAfter := int((rec.resetTime.Sub(now) + time.Second - 1) / time.Second)
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	rec.count++
	return Decision{Allowed: true}, nil
}

func (s *MemoryStore) Close() {
	close(s.stop)
}

func (s *MemoryStore) autoSweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep 清理已过期的窗口，限制 map 无界增长
func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, rec := range s.windows {
		if now.After(rec.resetTime) {
			delete(s.windows, key)
		}
	}
}
