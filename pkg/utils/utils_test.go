package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardIndex(t *testing.T) {
	const shards = 64
	for _, key := range []string{"", "a", "some-address", "another-address"} {
		idx := ShardIndex(key, shards)
		assert.Less(t, idx, uint64(shards))
		// 同一 key 必须稳定落在同一分片
		assert.Equal(t, idx, ShardIndex(key, shards))
	}
}

func TestParallelMap(t *testing.T) {
	inputs := make([]int, 100)
	for i := range inputs {
		inputs[i] = i
	}

	out := ParallelMap(inputs, 8, func(v int) int { return v * 2 })
	for i, v := range out {
		assert.Equal(t, i*2, v)
	}
}

func TestParallelMap_Empty(t *testing.T) {
	assert.Nil(t, ParallelMap(nil, 4, func(v int) int { return v }))
}

func TestParallelMap_SingleInput(t *testing.T) {
	assert.Equal(t, []string{"X"}, ParallelMap([]string{"x"}, 8, func(v string) string {
		return "X"
	}))
}
