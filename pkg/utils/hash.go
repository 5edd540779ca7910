package utils

import (
	"github.com/cespare/xxhash/v2"
)

// ShardIndex 把任意字符串 key 映射到 [0, shards) 的分片下标，
// 用于按发送方地址分片加锁。shards 必须为 2 的幂
func ShardIndex(key string, shards uint64) uint64 {
	return xxhash.Sum64String(key) & (shards - 1)
}
