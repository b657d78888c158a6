package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

func newNoopLoggerLimit() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)
		handler := RateLimitMiddleware(newNoopLoggerLimit(), limiter)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "too many requests")
	})

	t.Run("limits are kept per client", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)
		handler := RateLimitMiddleware(newNoopLoggerLimit(), limiter)(okHandler(t))

		first := httptest.NewRequest(http.MethodGet, "/test", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		second := httptest.NewRequest(http.MethodGet, "/test", nil)
		second.RemoteAddr = "10.0.0.2:1234"

		for _, req := range []*http.Request{first, second} {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, first)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("authenticated actor is keyed by id", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)
		handler := RateLimitMiddleware(newNoopLoggerLimit(), limiter)(okHandler(t))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req = req.WithContext(WithPrincipal(req.Context(), models.Principal{ID: "w1", Role: models.RoleWorker}))
		assert.Equal(t, "actor:w1", clientKey(req))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("allows requests after refill", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)
		current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return current }
		handler := RateLimitMiddleware(newNoopLoggerLimit(), limiter)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		current = current.Add(time.Second)
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("idle visitors are evicted", func(t *testing.T) {
		limiter := NewRateLimiter(1, 1)
		current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return current }

		assert.True(t, limiter.allow("ip:a"))
		current = current.Add(limiterIdleTTL + time.Second)
		assert.True(t, limiter.allow("ip:b"))
		assert.Len(t, limiter.visitors, 1)
	})

	t.Run("sweep runs at most once per idle interval", func(t *testing.T) {
		limiter := NewRateLimiter(100, 100)
		current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return current }

		assert.True(t, limiter.allow("ip:a"))
		limiter.visitors["ip:stale"] = &visitor{
			limiter:  rate.NewLimiter(limiter.rps, limiter.burst),
			lastSeen: current.Add(-2 * limiterIdleTTL),
		}

		current = current.Add(time.Minute)
		assert.True(t, limiter.allow("ip:a"))
		assert.Contains(t, limiter.visitors, "ip:stale")

		current = current.Add(limiterIdleTTL)
		assert.True(t, limiter.allow("ip:a"))
		assert.NotContains(t, limiter.visitors, "ip:stale")
		assert.Len(t, limiter.visitors, 1)
	})
}
