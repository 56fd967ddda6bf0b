package labyrinth

import "sync"

const DEFAULT_WORKERS = 1

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// forEachIndex runs fn for every index in [0, n) over the workers
func forEachIndex(workersCount int) func(n int, fn func(i int)) {
	return func(n int, fn func(i int)) {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		task(workersCount, indices, fn)
	}
}
