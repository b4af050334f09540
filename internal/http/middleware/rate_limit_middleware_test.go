package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLocalRateLimiterDeniesAfterLimit(t *testing.T) {
	handler := NewRateLimiter(3, time.Minute).Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// A different client is unaffected.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for other client, got %d", rec.Code)
	}
}

func newRedisLimiterForTest(t *testing.T) *RedisLimiter {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, "test")
}

func TestRedisLimiterEnforcesWindow(t *testing.T) {
	limiter := newRedisLimiterForTest(t)
	policy := RateLimitPolicy{SustainedLimit: 2, SustainedWindow: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "client-a", policy)
		if err != nil {
			t.Fatalf("allow %d: %v", i+1, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	d, err := limiter.Allow(ctx, "client-a", policy)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("third request should be denied")
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", d.RetryAfter)
	}

	// Separate keys have separate budgets.
	d, err = limiter.Allow(ctx, "client-b", policy)
	if err != nil || !d.Allowed {
		t.Fatalf("expected other key allowed, got %+v err=%v", d, err)
	}
}

func TestRedisLimiterFailureModes(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close() // backend down from the start

	openLimiter := NewDistributedRateLimiter(NewRedisLimiter(client, "t"), 5, time.Minute, FailOpen, "api", nil)
	rec := httptest.NewRecorder()
	openLimiter.Middleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fail-open should admit, got %d", rec.Code)
	}

	closedLimiter := NewDistributedRateLimiter(NewRedisLimiter(client, "t"), 5, time.Minute, FailClosed, "auth", nil)
	rec = httptest.NewRecorder()
	closedLimiter.Middleware()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("fail-closed should reject, got %d", rec.Code)
	}
}

func TestSubjectOrIPKeyFunc(t *testing.T) {
	jwtMgr := newTestJWTManager()
	keyFunc := SubjectOrIPKeyFunc(jwtMgr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	if key := keyFunc(req); key != "10.0.0.9:5555" {
		t.Fatalf("expected ip key, got %q", key)
	}

	access, _, err := jwtMgr.IssueTokenPair(77)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+access)
	if key := keyFunc(req); key != "sub:77" {
		t.Fatalf("expected subject key, got %q", key)
	}
}
