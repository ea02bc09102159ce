package worker

import (
	"context"
	"testing"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("https://example.com/a") {
		t.Error("first request should be allowed")
	}
	if !l.Allow("https://example.com/b") {
		t.Error("second request within burst should be allowed")
	}
	if l.Allow("https://example.com/c") {
		t.Error("third request should exceed burst")
	}

	// Separate domains get separate limiters.
	if !l.Allow("https://other.org/") {
		t.Error("different domain should have its own budget")
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("https://example.com/") // drain the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if l.Allow("://not-a-url") {
		t.Error("unparseable URL should not be allowed")
	}
}
