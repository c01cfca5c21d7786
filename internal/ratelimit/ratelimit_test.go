package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}

	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})
	return redisClient
}

func TestTokenBucket_Allow(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := bucket.Allow(ctx, "user-1", "publish")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if d.Remaining != int64(4-i) {
			t.Fatalf("Expected %d remaining after request %d, got %d", 4-i, i+1, d.Remaining)
		}
	}

	d, err := bucket.Allow(ctx, "user-1", "publish")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}

	// other actions and users have their own buckets
	if d, _ := bucket.Allow(ctx, "user-1", "update"); !d.Allowed {
		t.Fatal("Expected a different action to be allowed")
	}
	if d, _ := bucket.Allow(ctx, "user-2", "publish"); !d.Allowed {
		t.Fatal("Expected a different user to be allowed")
	}
}

func TestTokenBucket_GetRemaining(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 10, 10)
	ctx := context.Background()

	remaining, err := bucket.GetRemaining(ctx, "user-1", "update")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("Expected 10 remaining tokens, got %d", remaining)
	}

	for i := 0; i < 3; i++ {
		bucket.Allow(ctx, "user-1", "update")
	}

	remaining, err = bucket.GetRemaining(ctx, "user-1", "update")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 7 {
		t.Fatalf("Expected 7 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 2, 2)
	now := time.Unix(1_700_000_000, 0)
	bucket.now = func() time.Time { return now }
	ctx := context.Background()

	bucket.Allow(ctx, "user-1", "publish")
	bucket.Allow(ctx, "user-1", "publish")
	if d, _ := bucket.Allow(ctx, "user-1", "publish"); d.Allowed {
		t.Fatal("Expected bucket to be empty")
	}

	now = now.Add(time.Minute)
	d, err := bucket.Allow(ctx, "user-1", "publish")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("Expected refill after one window, got %+v", d)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	bucket := NewTokenBucket(setupTestRedis(t), 5, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		bucket.Allow(ctx, "user-1", "publish")
	}

	if err := bucket.Reset(ctx, "user-1", "publish"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	remaining, err := bucket.GetRemaining(ctx, "user-1", "publish")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 5 {
		t.Fatalf("Expected 5 remaining tokens after reset, got %d", remaining)
	}
}
