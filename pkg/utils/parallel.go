package utils

import (
	"sync"
)

// ParallelMap 用固定数量的 worker 并行处理 inputs，
// 结果顺序与输入一致。CLI 批量查询余额时使用
func ParallelMap[T any, R any](inputs []T, workerNum int, fn func(input T) R) []R {
	n := len(inputs)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []R{fn(inputs[0])}
	}
	if workerNum > n {
		workerNum = n
	}

	type job struct {
		index int
		value T
	}
	jobCh := make(chan job)
	results := make([]R, n)

	var wg sync.WaitGroup
	for i := 0; i < workerNum; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				// 每个下标只写一次，无需加锁
				results[j.index] = fn(j.value)
			}
		}()
	}

	for i, v := range inputs {
		jobCh <- job{index: i, value: v}
	}
	close(jobCh)
	wg.Wait()

	return results
}
