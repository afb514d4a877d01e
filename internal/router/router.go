package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/damoah/buildflow/internal/config"
	"github.com/damoah/buildflow/internal/handler"
	"github.com/damoah/buildflow/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login flow and the authenticated session
// endpoints. Login is throttled per identifier and source address when a
// redis client is available; without one the throttle is a no-op.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, throttle config.LoginThrottleConfig, rdb *redis.Client) {
	g := e.Group("/auth")
	g.POST("/login", a.Login, middleware.LoginThrottle(throttle, rdb))
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(a.Cfg.JWTSecret))
	auth.GET("/me", a.Me)
}
