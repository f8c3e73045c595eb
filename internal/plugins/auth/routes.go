package auth

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/zeromovies/internal/middleware"
)

// RateLimits caps login and signup POSTs per client IP per minute.
// Zero leaves a route unlimited.
type RateLimits struct {
	Login  int
	Signup int
}

// RegisterRoutes sets up the /auth routes. Signup and login are public;
// logout requires a session.
func RegisterRoutes(e *echo.Echo, h *Handler, service AuthService, rdb redis.Cmdable, limits RateLimits) {
	g := e.Group("/auth")

	g.GET("/signup", h.SignupForm)
	g.POST("/signup", h.Signup, middleware.RateLimit(rdb, "signup", limits.Signup, time.Minute))
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login, middleware.RateLimit(rdb, "login", limits.Login, time.Minute))

	requireLogin := RequireLogin(service)
	g.GET("/logout", h.Logout, requireLogin)
	g.POST("/logout", h.Logout, requireLogin)
}
