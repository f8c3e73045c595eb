// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (record store, Redis client, Echo
// instance) and wires the plugins together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
	"github.com/keyxmakerx/zeromovies/internal/config"
	"github.com/keyxmakerx/zeromovies/internal/middleware"
	"github.com/keyxmakerx/zeromovies/internal/plugins/auth"
	"github.com/keyxmakerx/zeromovies/internal/plugins/catalog"
	"github.com/keyxmakerx/zeromovies/internal/templates/pages"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Stores is the selected record store.
	Stores *Stores

	// Redis holds session records.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// Auth and Catalog are the plugin services shared by handlers.
	Auth    auth.AuthService
	Catalog catalog.CatalogService
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, stores *Stores, rdb *redis.Client) (*App, error) {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Only proxies on local and private networks may set X-Forwarded-For.
	if err := middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"::1/128",
		"fd00::/8",
	}); err != nil {
		return nil, err
	}

	sessions := auth.NewSessionStore(rdb, cfg.Auth.SecretKey)

	app := &App{
		Config:  cfg,
		Stores:  stores,
		Redis:   rdb,
		Echo:    e,
		Auth:    auth.NewAuthService(stores.Users, sessions, cfg.Auth.SessionTTL, cfg.Auth.BrowserSessionTTL),
		Catalog: catalog.NewCatalogService(stores.Movies),
	}

	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to HTTP responses.
	e.HTTPErrorHandler = app.errorHandler

	// Serve static files (CSS, JS).
	e.Static("/static", "static")

	return app, nil
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first, innermost (identity) last.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging; asset and probe requests only at debug level.
	a.Echo.Use(middleware.RequestLogger("/static/", "/healthz"))

	// Security headers -- CSP, X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders())

	// CSRF -- double-submit cookie pattern on all state-changing requests.
	a.Echo.Use(middleware.CSRF())

	// Session cookie -> identity, for the navbar and the gates.
	a.Echo.Use(auth.LoadIdentity(a.Auth))
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) and Echo's own HTTP errors to rendered error pages. Browser
// 401s are sent to the login page. Internal details are logged, never
// shown.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var message string

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message

		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok && code != http.StatusNotFound && code < 500 {
			message = msg
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if code == http.StatusUnauthorized {
		next := url.QueryEscape(c.Request().URL.RequestURI())
		_ = c.Redirect(http.StatusSeeOther, auth.LoginPath+"?next="+next)
		return
	}

	// Never show internal messages, and use one wording for every 404.
	if code >= http.StatusInternalServerError || code == http.StatusNotFound || message == "" {
		message = defaultErrorMessage(code)
	}

	if err := middleware.Render(c, code, pages.ErrorPage(code, message)); err != nil {
		slog.Error("rendering error page", slog.Any("error", err))
	}
}

// defaultErrorMessage returns the page text for a status code when the
// error carries no message fit for users.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "Page not found"
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusUnprocessableEntity:
		return "The submitted data could not be processed."
	default:
		return "Internal server error"
	}
}

// Bootstrap seeds the default administrator. It runs once before Start.
func (a *App) Bootstrap(ctx context.Context) error {
	_, err := auth.EnsureDefaultAdmin(ctx, a.Stores.Users, auth.AdminSeed{
		Username: a.Config.Admin.Username,
		Email:    a.Config.Admin.Email,
		Password: a.Config.Admin.Password,
	})
	return err
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting ZeroMovies server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("store", a.Config.Store.Backend),
	)
	return a.Echo.Start(addr)
}

// Close releases the store and Redis connections.
func (a *App) Close() error {
	return errors.Join(a.Stores.Close(), a.Redis.Close())
}

