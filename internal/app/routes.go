package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/zeromovies/internal/middleware"
	"github.com/keyxmakerx/zeromovies/internal/plugins/admin"
	"github.com/keyxmakerx/zeromovies/internal/plugins/auth"
	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
	"github.com/keyxmakerx/zeromovies/internal/templates/layouts"
)

// RegisterRoutes sets up all application routes. It registers the health
// check directly and delegates to each plugin's route registration.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Copy session and CSRF data into the template context.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		if id := auth.CurrentIdentity(c); id != nil {
			ctx = layouts.SetIsAuthenticated(ctx, true)
			ctx = layouts.SetUserName(ctx, id.Username)
			ctx = layouts.SetIsAdmin(ctx, id.IsAdmin)
		}
		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
		return ctx
	}

	// Health check for container orchestrators.
	e.GET("/healthz", a.healthz)

	// --- Plugin Routes ---

	catalog.RegisterRoutes(e, catalog.NewHandler(a.Catalog, a.Config.Catalog.PerPage))
	auth.RegisterRoutes(e, auth.NewHandler(a.Auth), a.Auth, a.Redis, auth.RateLimits{
		Login:  a.Config.Auth.LoginRateLimit,
		Signup: a.Config.Auth.SignupRateLimit,
	})
	admin.RegisterRoutes(e, admin.NewHandler(a.Catalog, a.Stores.Users), a.Auth)
}

// healthz reports store and Redis reachability. Any failure is a 503;
// the cause is logged, not returned.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status":  "ok",
		"backend": a.Stores.Backend(),
		"store":   "ok",
		"redis":   "ok",
	}
	code := http.StatusOK

	if err := a.Stores.Ping(ctx); err != nil {
		slog.Warn("health check: store unreachable", slog.Any("error", err))
		status["store"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		slog.Warn("health check: redis unreachable", slog.Any("error", err))
		status["redis"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, status)
}
