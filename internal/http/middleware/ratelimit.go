package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/video-service/internal/config"
	"github.com/princekumarofficial/video-service/internal/ratelimit"
	"github.com/princekumarofficial/video-service/internal/utils/response"
)

const (
	ActionPublish = "publish"
	ActionUpdate  = "update"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

// NewRateLimitConfig builds one bucket per action. A nil client disables
// rate limiting.
func NewRateLimitConfig(redisClient redis.Cmdable, cfg config.RateLimit) *RateLimitConfig {
	rlc := &RateLimitConfig{limiters: make(map[string]*ratelimit.TokenBucket)}
	if redisClient == nil {
		return rlc
	}

	if cfg.PublishPerMinute > 0 {
		rlc.limiters[ActionPublish] = ratelimit.NewTokenBucket(redisClient, cfg.PublishPerMinute, cfg.PublishPerMinute)
	}
	if cfg.UpdatePerMinute > 0 {
		rlc.limiters[ActionUpdate] = ratelimit.NewTokenBucket(redisClient, cfg.UpdatePerMinute, cfg.UpdatePerMinute)
	}
	return rlc
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			// auth middleware must run first
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				unauthorized(w, "user not authenticated")
				return
			}

			decision, err := limiter.Allow(r.Context(), userID, action)
			if err != nil {
				// fail open while Redis is unavailable
				slog.Error("rate limit check failed", slog.String("action", action), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Capacity(), 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(limiter.Window().Seconds())))

			if !decision.Allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with rate limiting for a specific action
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	return rlc.RateLimitMiddleware(action)(handler)
}
