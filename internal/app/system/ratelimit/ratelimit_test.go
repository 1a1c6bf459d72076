package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLimiter_AllowWindow(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "third request in window")
	assert.True(t, l.Allow("b"), "keys are independent")
	assert.Equal(t, 0, l.Remaining("a"))
	assert.Equal(t, 2, l.Remaining("c"))

	clock = clock.Add(61 * time.Second)
	assert.True(t, l.Allow("a"), "new window")
	assert.Equal(t, 1, l.Remaining("a"))
}

func TestLimiter_PrunesExpired(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return clock }

	l.Allow("a")
	l.Allow("b")
	clock = clock.Add(2 * time.Minute)
	l.Allow("c")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.windows, 1)
	assert.Contains(t, l.windows, "c")
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(1, time.Minute)
	h := Middleware(l, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	req.RemoteAddr = "10.0.0.7:5123"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.1:80", "198.51.100.4"},
		{"remote with port", nil, "192.0.2.1:4431", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
