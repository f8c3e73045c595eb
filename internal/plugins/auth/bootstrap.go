package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// AdminSeed describes the default administrator account.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// EnsureDefaultAdmin creates the default administrator if no user with its
// username exists. An existing account is left untouched, including its
// password. It reports whether an account was created.
func EnsureDefaultAdmin(ctx context.Context, repo UserRepository, seed AdminSeed) (bool, error) {
	if seed.Username == "" || seed.Password == "" {
		return false, fmt.Errorf("default admin username and password are required")
	}

	_, err := repo.FindByUsername(ctx, seed.Username)
	if err == nil {
		slog.Debug("default admin present", slog.String("username", seed.Username))
		return false, nil
	}
	if !apperror.IsCode(err, http.StatusNotFound) {
		return false, fmt.Errorf("looking up default admin: %w", err)
	}

	hash, err := HashPassword(seed.Password)
	if err != nil {
		return false, fmt.Errorf("hashing default admin password: %w", err)
	}

	admin := &User{
		ID:           uuid.NewString(),
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("creating default admin: %w", err)
	}

	slog.Info("default admin created",
		slog.String("user_id", admin.ID),
		slog.String("username", admin.Username),
	)
	return true, nil
}
