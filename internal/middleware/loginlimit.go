package middleware

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/damoah/buildflow/internal/config"
)

// LoginThrottle returns a fixed-window throttle for the login route,
// keyed by client IP plus the submitted identifier. Redis being down or
// unconfigured disables throttling entirely (fail open): login must keep
// working when the cache tier is not.
func LoginThrottle(cfg config.LoginThrottleConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := loginKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			// INCR + EXPIRE-on-first-hit implements the fixed window. Any
			// redis error lets the request through.
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				secs := int(math.Ceil(ttl.Seconds()))
				if secs < 1 {
					secs = int(cfg.Window / time.Second)
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many login attempts",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// loginKey builds the window key from the client IP and the identifier in
// the JSON body. The body is read and restored so the handler can still
// bind it.
func loginKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	ident := "unknown"
	req := c.Request()
	if req.Body != nil {
		body, err := io.ReadAll(io.LimitReader(req.Body, 1<<20))
		if err == nil {
			req.Body = io.NopCloser(strings.NewReader(string(body)))
			var probe struct {
				Identifier string `json:"identifier"`
				Username   string `json:"username"`
				Email      string `json:"email"`
			}
			if json.Unmarshal(body, &probe) == nil {
				for _, v := range []string{probe.Identifier, probe.Username, probe.Email} {
					if s := strings.ToLower(strings.TrimSpace(v)); s != "" {
						ident = s
						break
					}
				}
			}
		}
	}
	return prefix + ":" + ip + ":" + ident
}
