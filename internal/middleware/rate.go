package middleware

import (
	"strconv"
	"strings"
	"time"

	"net/http"

	"transfer-service/internal/cache"
	"transfer-service/internal/response"
)

// RateLimiter throttles a route per user (falling back to client IP),
// with a cooling-off block once the limit is crossed. Redis failures
// fail open so the limiter can never take the API down with it.
func RateLimiter(c *cache.Cache, limit int, window, blockDuration time.Duration, keyPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var clientID string
			if userID, ok := GetUserID(ctx); ok {
				clientID = "uid:" + strconv.FormatInt(userID, 10)
			} else {
				ip := r.Header.Get("X-Forwarded-For")
				if ip == "" {
					ip = r.RemoteAddr
				}
				clientID = "ip:" + strings.Split(ip, ",")[0]
			}

			blockKey := clientID + ":blocked"
			if blocked, _ := c.Get(ctx, keyPrefix, blockKey); blocked == "1" {
				ttl, _ := c.TTL(ctx, keyPrefix, blockKey)
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "too many requests, try again in "+ttl.String())
				return
			}

			count, err := c.IncrWithExpire(ctx, keyPrefix, clientID, window)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				_ = c.Set(ctx, keyPrefix, blockKey, "1", blockDuration)
				w.Header().Set("Retry-After", strconv.Itoa(int(blockDuration.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "too many requests, blocked for "+blockDuration.String())
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(count)))

			next.ServeHTTP(w, r)
		})
	}
}
