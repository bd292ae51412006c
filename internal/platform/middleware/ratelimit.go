package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"kycgate/pkg/requestcontext"
)

// RateLimiter is a fixed-window per-client limiter for the submit endpoint.
// Submissions are expensive (OCR, hashing, corpus scans), so a modest cap per
// client IP keeps one misbehaving caller from starving the pipeline.
//
// The limiter fails open: if Redis is unreachable the request proceeds and a
// warning is logged. Duplicate detection, not rate limiting, is the
// correctness layer here.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewRateLimiter builds a limiter allowing limit requests per window per
// client IP. A nil redis client disables limiting entirely.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Limit is the middleware entry point.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.client == nil || rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = r.RemoteAddr
		}
		key := fmt.Sprintf("ratelimit:submit:%s:%d", ip, time.Now().Unix()/int64(rl.window.Seconds()))

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.WarnContext(ctx, "rate limiter unavailable, failing open",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			// First hit in this window owns the expiry.
			if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.logger.WarnContext(ctx, "failed to set rate limit window expiry",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
			}
		}

		if count > int64(rl.limit) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
