// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendMySQL = "mysql"
	BackendFile  = "file"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Store selects and locates the record store.
	Store StoreConfig

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// Admin holds the credentials seeded for the default administrator.
	Admin AdminConfig

	// Catalog holds listing settings.
	Catalog CatalogConfig
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "mysql" or "file".
	Backend string

	// DataDir is where the file backend keeps its JSON collections.
	DataDir string
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so
// container orchestrators can manage each independently.
// If DATABASE_URL is set, it takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	User     string
	Password string
	Name     string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// fields using the driver's Config.FormatDSN() to safely handle special
// characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SecretKey signs session cookies (HS256).
	SecretKey string

	// SessionTTL is the lifetime of a "remember me" session.
	SessionTTL time.Duration

	// BrowserSessionTTL bounds a non-persistent session on the server side.
	// The cookie itself expires when the browser closes.
	BrowserSessionTTL time.Duration

	// LoginRateLimit and SignupRateLimit cap POSTs per client IP per
	// minute. Zero (the default) disables the limit.
	LoginRateLimit  int
	SignupRateLimit int
}

// AdminConfig is the default administrator created at startup if absent.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// CatalogConfig holds catalog listing settings.
type CatalogConfig struct {
	// PerPage is the number of movies on each index page.
	PerPage int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", slog.Any("error", err))
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendMySQL)),
			DataDir: getEnv("DATA_DIR", "./data"),
		},

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "zeromovies"),
			Password:        getEnv("DB_PASSWORD", "zeromovies"),
			Name:            getEnv("DB_NAME", "zeromovies"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			SecretKey:         getEnv("SECRET_KEY", ""),
			SessionTTL:        getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			BrowserSessionTTL: getEnvDuration("BROWSER_SESSION_TTL", 24*time.Hour),
			LoginRateLimit:    getEnvInt("LOGIN_RATE_LIMIT", 0),
			SignupRateLimit:   getEnvInt("SIGNUP_RATE_LIMIT", 0),
		},

		Admin: AdminConfig{
			Username: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
			Email:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@zeromovies.com"),
			Password: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		},

		Catalog: CatalogConfig{
			PerPage: getEnvInt("CATALOG_PER_PAGE", 12),
		},
	}

	switch cfg.Store.Backend {
	case BackendMySQL, BackendFile:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMySQL, BackendFile, cfg.Store.Backend)
	}

	if cfg.Catalog.PerPage < 1 {
		return nil, fmt.Errorf("CATALOG_PER_PAGE must be positive, got %d", cfg.Catalog.PerPage)
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	if cfg.IsProduction() {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
