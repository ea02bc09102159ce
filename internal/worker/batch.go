package worker

import (
	"context"
	"sync"
)

// ForEach runs fn for every index in [0,n) with at most workers
// goroutines in flight. Results land at their input index, so output
// order always matches input order regardless of completion order.
// fn must isolate failures itself (write a placeholder result); ForEach
// never aborts the batch. A cancelled context stops scheduling new
// items but lets in-flight items finish.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(ctx, idx)
		}(i)
	}

	wg.Wait()
}
