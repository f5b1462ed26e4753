package dynamo

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when a caller asks for zero.
var DefaultWorkers = runtime.NumCPU()

// ParallelFor executes fn over [0, n) split into contiguous chunks, one
// goroutine per chunk, and returns once every chunk has finished. The
// worker index passed to fn is in [0, workers).
func ParallelFor(n, workers, minChunk int, fn func(worker, start, end int)) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			fn(worker, s, e)
		}(w, start, end)
	}

	wg.Wait()
}

// Chunks reports how many workers ParallelFor would use for the same arguments.
func Chunks(n, workers, minChunk int) int {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
