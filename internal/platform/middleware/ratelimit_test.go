package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycgate/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func limiterKey(ip string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:submit:%s:%d", ip, time.Now().Unix()/int64(window.Seconds()))
}

func limiterRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/kyc/submit", nil)
	return req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_UnderLimit(t *testing.T) {
	// A long window keeps the bucket key stable for the duration of the test.
	window := 240 * time.Hour
	db, mock := redismock.NewClientMock()
	key := limiterKey("10.0.0.1", window)
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, window).SetVal(true)

	rl := NewRateLimiter(db, 5, window, testLogger())
	rec := httptest.NewRecorder()
	rl.Limit(okHandler).ServeHTTP(rec, limiterRequest("10.0.0.1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimit(t *testing.T) {
	window := 240 * time.Hour
	db, mock := redismock.NewClientMock()
	key := limiterKey("10.0.0.2", window)
	mock.ExpectIncr(key).SetVal(6)

	rl := NewRateLimiter(db, 5, window, testLogger())
	rec := httptest.NewRecorder()
	rl.Limit(okHandler).ServeHTTP(rec, limiterRequest("10.0.0.2"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	window := 240 * time.Hour
	db, mock := redismock.NewClientMock()
	key := limiterKey("10.0.0.3", window)
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	rl := NewRateLimiter(db, 5, window, testLogger())
	rec := httptest.NewRecorder()
	rl.Limit(okHandler).ServeHTTP(rec, limiterRequest("10.0.0.3"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 5, time.Minute, testLogger())
	rec := httptest.NewRecorder()
	rl.Limit(okHandler).ServeHTTP(rec, limiterRequest("10.0.0.4"))

	assert.Equal(t, http.StatusOK, rec.Code)
}
