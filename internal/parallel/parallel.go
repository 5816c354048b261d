// Package parallel fans independent work items out over a fixed number of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves a requested worker count. Zero or negative means
// GOMAXPROCS. The result never exceeds n when n > 0.
func Workers(requested, n int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if n > 0 && w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// For calls fn(i) for every i in [0, n) using up to workers goroutines and
// returns once all calls have completed. Items are assigned round-robin, so
// worker k handles k, k+workers, k+2*workers and so on. With one worker fn
// runs on the calling goroutine.
func For(workers, n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers = Workers(workers, n)
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for k := 0; k < workers; k++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < n; i += workers {
				fn(i)
			}
		}(k)
	}
	wg.Wait()
}

// Bands splits [0, n) into at most parts contiguous half-open ranges of
// near-equal size and returns their boundaries. The result has len+1
// entries: band i covers [b[i], b[i+1]).
func Bands(n, parts int) []int {
	if n <= 0 {
		return []int{0}
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	bounds := make([]int, parts+1)
	for i := 0; i <= parts; i++ {
		bounds[i] = i * n / parts
	}
	return bounds
}
