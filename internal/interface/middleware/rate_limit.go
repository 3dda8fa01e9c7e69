package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shop-admin/pkg/response"
)

// fixedWindow counts a hit and reports the remaining window in one round trip.
// Returns {count, pttl_ms}.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count int
	reset time.Duration
}

func chargeWindow(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (windowState, error) {
	res, err := fixedWindow.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(res) != 2 {
		return windowState{}, fmt.Errorf("rate limit script returned %d values", len(res))
	}
	st := windowState{count: int(res[0])}
	if res[1] > 0 {
		st.reset = time.Duration(res[1]) * time.Millisecond
	}
	return st, nil
}

// RateLimit allows max requests per window per key. Redis errors let the
// request through; OPTIONS preflights are never counted.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		st, err := chargeWindow(c.Request.Context(), rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int((st.reset + time.Second - 1) / time.Second)
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining(max, st.count)))
		h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if st.count > max {
			h.Set("Retry-After", strconv.Itoa(max1(resetSec)))
			response.Error[any](c, http.StatusTooManyRequests, "too many requests, please try again later", nil)
			return
		}
		c.Next()
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
