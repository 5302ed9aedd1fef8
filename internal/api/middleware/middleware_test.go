package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterTake(t *testing.T) {
	limiter := newRateLimiter(2, time.Minute)

	if !limiter.take() || !limiter.take() {
		t.Fatal("first two takes should succeed")
	}
	if limiter.take() {
		t.Fatal("third take should fail with an empty bucket")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	limiter := newRateLimiter(2, time.Second)
	limiter.take()
	limiter.take()

	// 回撥時鐘模擬窗口流逝
	limiter.mu.Lock()
	limiter.last = limiter.last.Add(-2 * time.Second)
	limiter.mu.Unlock()

	if !limiter.take() {
		t.Fatal("take should succeed after the window has elapsed")
	}
}

func TestRateLimiterAccumulatesFractionalTokens(t *testing.T) {
	limiter := newRateLimiter(10, time.Second)
	for i := 0; i < 10; i++ {
		limiter.take()
	}
	if limiter.take() {
		t.Fatal("bucket should be empty after draining the capacity")
	}

	// 100ms × 10 req/s 恰好補滿一個令牌
	limiter.mu.Lock()
	limiter.last = limiter.last.Add(-100 * time.Millisecond)
	limiter.mu.Unlock()

	if !limiter.take() {
		t.Fatal("elapsed time should refill one token")
	}
}

func TestDedupRegistryDuplicate(t *testing.T) {
	registry := &dedupRegistry{seen: make(map[string]time.Time)}
	window := time.Minute

	if registry.duplicate("POST:/chat/start:abc", window) {
		t.Error("first sighting reported as duplicate")
	}
	if !registry.duplicate("POST:/chat/start:abc", window) {
		t.Error("repeat inside the window not reported as duplicate")
	}
	if registry.duplicate("POST:/chat/start:other", window) {
		t.Error("different fingerprint reported as duplicate")
	}
}

func TestDedupRegistryWindowExpiry(t *testing.T) {
	registry := &dedupRegistry{seen: make(map[string]time.Time)}

	registry.duplicate("fp", time.Millisecond)

	registry.mu.Lock()
	registry.seen["fp"] = time.Now().Add(-time.Second)
	registry.mu.Unlock()

	if registry.duplicate("fp", time.Millisecond) {
		t.Error("sighting outside the window reported as duplicate")
	}
}
