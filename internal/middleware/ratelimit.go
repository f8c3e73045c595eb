package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns middleware that allows each client IP at most
// maxRequests requests per fixed window for the given scope. Counters live
// in Redis so they survive restarts and are shared between instances.
// Exceeding the limit yields 429. If Redis is unreachable the request is let
// through and the failure logged. A maxRequests below 1 disables the limit.
func RateLimit(rdb redis.Cmdable, scope string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if maxRequests < 1 {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", scope, c.RealIP())

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				slog.Warn("rate limit check failed",
					slog.String("scope", scope),
					slog.Any("error", err),
				)
				return next(c)
			}
			if count == 1 {
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					slog.Warn("setting rate limit window", slog.String("scope", scope), slog.Any("error", err))
				}
			}

			if count > int64(maxRequests) {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts. Please try again later.")
			}
			return next(c)
		}
	}
}
