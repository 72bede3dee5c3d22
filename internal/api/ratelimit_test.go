package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTokenBucketTake(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	b := newTokenBucket(2, 1, clock.now())

	for i := 0; i < 2; i++ {
		if ok, _, _ := b.take(clock.now()); !ok {
			t.Fatalf("take %d denied within burst", i+1)
		}
	}
	ok, remaining, reset := b.take(clock.now())
	if ok || remaining != 0 {
		t.Errorf("take over burst = %v, %d remaining", ok, remaining)
	}
	if want := clock.now().Add(2 * time.Second); !reset.Equal(want) {
		t.Errorf("reset = %v, want %v", reset, want)
	}

	clock.advance(time.Second)
	if ok, _, _ := b.take(clock.now()); !ok {
		t.Error("take after refill denied")
	}
	clock.advance(time.Hour)
	if _, remaining, _ := b.take(clock.now()); remaining != 1 {
		t.Errorf("remaining after long idle = %d, want capacity-1", remaining)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 60, BurstSize: 1, Now: clock.now})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") || rl.Allow("10.0.0.1") {
		t.Error("10.0.0.1 should get exactly one request")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("10.0.0.2 should have its own bucket")
	}
}

func TestRateLimiterDefaultBurst(t *testing.T) {
	tests := []struct{ rpm, want int }{
		{600, 60},
		{5, 1},
	}
	for _, tt := range tests {
		rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: tt.rpm})
		rl.Stop()
		if rl.config.BurstSize != tt.want {
			t.Errorf("burst for %d rpm = %d, want %d", tt.rpm, rl.config.BurstSize, tt.want)
		}
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 60, BurstSize: 5, Now: clock.now})
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	clock.advance(time.Minute)
	rl.Allow("10.0.0.2")
	clock.advance(5 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	_, stale := rl.buckets["10.0.0.1"]
	_, fresh := rl.buckets["10.0.0.2"]
	rl.mu.Unlock()
	if stale || !fresh {
		t.Errorf("after cleanup stale=%v fresh=%v, want false true", stale, fresh)
	}
}

func TestRateLimiterMiddlewareHeaders(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 30, BurstSize: 1, Now: clock.now})
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	if w.Code != http.StatusOK || w.Header().Get("X-RateLimit-Limit") != "30" || w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("first = %d, headers %v", w.Code, w.Header())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "3" {
		t.Errorf("second = %d, Retry-After %q", w.Code, w.Header().Get("Retry-After"))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.1:1234", nil, "192.168.1.1"},
		{"no port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded leftmost", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"}, "203.0.113.5"},
		{"forwarded invalid", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": " 2001:db8::1 "}, "2001:db8::1"},
		{"garbage", "garbage", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
