// Package cache holds redis-backed helpers shared across instances.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow starts the expiry on the first failure only, so repeated
// failures cannot keep extending the window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// AttemptCounter counts failures per key in redis.
type AttemptCounter struct {
	rdb    redis.Cmdable
	prefix string
}

func NewAttemptCounter(rdb redis.Cmdable, prefix string) *AttemptCounter {
	return &AttemptCounter{rdb: rdb, prefix: prefix}
}

func (a *AttemptCounter) Count(ctx context.Context, key string) (int64, error) {
	n, err := a.rdb.Get(ctx, a.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (a *AttemptCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return incrWindow.Run(ctx, a.rdb, []string{a.prefix + key}, window.Milliseconds()).Int64()
}

func (a *AttemptCounter) Reset(ctx context.Context, key string) error {
	return a.rdb.Del(ctx, a.prefix+key).Err()
}
