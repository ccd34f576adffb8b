package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-client counter backed by Redis. When
// Redis is unavailable the limiter fails open: availability of the API is
// worth more than strict enforcement of a soft limit.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

func NewRateLimiter(client *redis.Client, perMinute int, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  perMinute,
		window: time.Minute,
		logger: logger,
	}
}

// Allow increments the counter for key and reports whether the request fits
// in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := "ratelimit:" + key + ":" + strconv.FormatInt(time.Now().Unix()/int64(l.window.Seconds()), 10)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(l.limit), nil
}

// Handler wraps an http.Handler with per-IP rate limiting. The authenticated
// user ID is preferred over the IP when present so NAT'd clients don't share
// a bucket.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := GetUserID(r.Context())
		if key == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			key = host
		}

		allowed, err := l.Allow(r.Context(), key)
		if err != nil {
			// Fail open on infrastructure errors.
			l.logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
				"error", err,
				"request_id", GetRequestID(r.Context()),
			)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
