package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// takeScript refills the bucket for the elapsed time, then tries to take one
// token. It returns {allowed, tokens left}.
var takeScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])
	local take = tonumber(ARGV[5])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	if take == 0 then
		return {0, tokens}
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return {allowed, tokens}
`)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int64
}

// TokenBucket is a per-user, per-action token bucket kept in Redis.
type TokenBucket struct {
	redis    redis.Cmdable
	capacity int64
	refill   int64
	window   time.Duration
	now      func() time.Time
}

// NewTokenBucket holds up to capacity tokens and adds refillRate tokens per minute.
func NewTokenBucket(client redis.Cmdable, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    client,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
		now:      time.Now,
	}
}

func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

// Allow takes one token for userID and action if one is left.
func (tb *TokenBucket) Allow(ctx context.Context, userID, action string) (Decision, error) {
	allowed, tokens, err := tb.run(ctx, userID, action, 1)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	return Decision{Allowed: allowed == 1, Remaining: tokens}, nil
}

// GetRemaining reports the tokens left without taking one.
func (tb *TokenBucket) GetRemaining(ctx context.Context, userID, action string) (int64, error) {
	_, tokens, err := tb.run(ctx, userID, action, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	return tokens, nil
}

// Reset clears the rate limit for a specific user action
func (tb *TokenBucket) Reset(ctx context.Context, userID, action string) error {
	return tb.redis.Del(ctx, key(userID, action)).Err()
}

func (tb *TokenBucket) run(ctx context.Context, userID, action string, take int) (int64, int64, error) {
	result, err := takeScript.Run(ctx, tb.redis, []string{key(userID, action)},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), tb.now().Unix(), take).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected result %v from rate limit script", result)
	}
	allowed, ok1 := values[0].(int64)
	tokens, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("unexpected result %v from rate limit script", result)
	}
	return allowed, tokens, nil
}

func key(userID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", userID, action)
}
