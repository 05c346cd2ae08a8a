package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSet reports whether the action is allowed for the user and, if so,
// locks it for the given window. A nil Redis client disables limiting.
func CheckAndSet(ctx context.Context, rdb *redis.Client, userID uint, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%d:%s", userID, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// TTL returns the remaining lock window for the action, zero when unlocked.
func TTL(ctx context.Context, rdb *redis.Client, userID uint, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%d:%s", userID, action)
	return rdb.TTL(ctx, key).Result()
}
