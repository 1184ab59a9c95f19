package ratelimit

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// KeyFunc derives the counter key for a request (client IP, user id, ...).
type KeyFunc func(c *gin.Context) string

// ByIP keys the window on the client address.
func ByIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUserOrIP keys on the authenticated user when available, falling back to
// the client address. Must run after the auth middleware to see the user.
func ByUserOrIP(c *gin.Context) string {
	if id := c.GetUint("user_id"); id != 0 {
		return fmt.Sprintf("user:%d", id)
	}
	return c.ClientIP()
}

// Middleware enforces a fixed-window limit backed by Redis counters. The
// counters live only as long as the window, so the store needs no cleanup.
// If Redis is unavailable the request is allowed through; rate limiting is
// protection, not a dependency.
func Middleware(rdb *redis.Client, name string, limit int64, window time.Duration, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		windowStart := time.Now().Unix() / int64(window.Seconds())
		counterKey := fmt.Sprintf("ratelimit:%s:%s:%d", name, key(c), windowStart)

		count, err := rdb.Incr(ctx, counterKey).Result()
		if err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, counterKey, window)
		}

		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded, try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
