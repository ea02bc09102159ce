package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestForEach_PreservesOrderByIndex(t *testing.T) {
	n := 50
	results := make([]int, n)

	ForEach(context.Background(), n, 8, func(ctx context.Context, i int) {
		// Vary completion order.
		time.Sleep(time.Duration(n-i) * time.Microsecond)
		results[i] = i * 2
	})

	for i, got := range results {
		if got != i*2 {
			t.Fatalf("result[%d] = %d, want %d", i, got, i*2)
		}
	}
}

func TestForEach_BoundsConcurrency(t *testing.T) {
	var inFlight, peak int64

	ForEach(context.Background(), 20, 3, func(ctx context.Context, i int) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
	})

	if p := atomic.LoadInt64(&peak); p > 3 {
		t.Errorf("peak concurrency %d exceeds worker bound 3", p)
	}
}

func TestForEach_EmptyAndCancelled(t *testing.T) {
	ForEach(context.Background(), 0, 4, func(ctx context.Context, i int) {
		t.Error("fn must not run for n=0")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	ForEach(ctx, 100, 1, func(ctx context.Context, i int) {
		atomic.AddInt64(&ran, 1)
	})

	// A pre-cancelled context schedules nothing.
	if atomic.LoadInt64(&ran) != 0 {
		t.Errorf("expected no items on cancelled context, ran %d", ran)
	}
}
