package cache

import (
	"sync"
	"time"
)

const sweepInterval = time.Minute

// 缓存 key 约定
const (
	KeySolPrice = "sol_price"
	KeyStats    = "stats"

	balanceKeyPrefix = "balance_"
)

// BalanceKey 某个地址的余额缓存 key
func BalanceKey(address string) string {
	return balanceKeyPrefix + address
}

type entry struct {
	data      any
	expiresAt time.Time
}

// Cache 进程内 TTL 缓存：互斥锁保护的 map + 周期清理。
// 条目只在 now < expiresAt 时可信，过期视同不存在。
// key 基数实际受限于被查询的地址数，maxSize 只是兜底
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	maxSize int
	now     func() time.Time
	stop    chan struct{}
}

// New 创建缓存并启动周期清理（每分钟一次）
func New(maxSize int) *Cache {
	c := NewWithClock(maxSize, time.Now)
	go c.autoSweep()
	return c
}

// NewWithClock 注入时钟，测试用，不启动后台清理
func NewWithClock(maxSize int, now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		maxSize: maxSize,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Get 命中且未过期才返回
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set 无条件覆盖
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		if _, exists := c.entries[key]; !exists {
			c.sweepLocked()
		}
	}
	c.entries[key] = entry{
		data:      data,
		expiresAt: c.now().Add(ttl),
	}
}

// Invalidate 立即删除
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Close 停止后台清理
func (c *Cache) Close() {
	close(c.stop)
}

func (c *Cache) autoSweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.sweepLocked()
			c.mu.Unlock()
		}
	}
}

func (c *Cache) sweepLocked() {
	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
