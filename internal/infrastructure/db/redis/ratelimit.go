package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential-guessing attempts with a fixed window
// counter per caller key. Key format: ratelimit:<scope>:<key>
type LoginLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginLimiter creates a limiter allowing max attempts per window.
func NewLoginLimiter(client *redis.Client, max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, max: int64(max), window: window}
}

// Allow reports whether another attempt is permitted for key within the
// current window, counting this attempt.
func (l *LoginLimiter) Allow(ctx context.Context, scope, key string) (bool, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", scope, key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		// First hit opens the window.
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.max, nil
}
