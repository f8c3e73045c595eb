package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
)

// invalidCredentialsMessage is shown for both unknown usernames and wrong
// passwords so the login form cannot be used to enumerate accounts.
const invalidCredentialsMessage = "Invalid username or password"

// Column limits, in characters, enforced before hitting the store.
const (
	maxUsernameLen = 80
	maxEmailLen    = 120
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	ValidateSession(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

// authService implements AuthService with argon2id hashing and Redis sessions.
type authService struct {
	repo       UserRepository
	sessions   *SessionStore
	sessionTTL time.Duration
	browserTTL time.Duration
}

// NewAuthService creates a new auth service. sessionTTL applies to
// "remember me" logins, browserTTL bounds all other sessions server-side.
func NewAuthService(repo UserRepository, sessions *SessionStore, sessionTTL, browserTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		browserTTL: browserTTL,
	}
}

// Register creates a new regular user. It validates the form, checks
// username and email uniqueness, hashes the password and persists the user.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, apperror.NewValidation("All fields are required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperror.NewValidation("Passwords do not match")
	}
	if utf8.RuneCountInString(input.Username) > maxUsernameLen {
		return nil, apperror.NewValidation(fmt.Sprintf("Username must be at most %d characters", maxUsernameLen))
	}
	if utf8.RuneCountInString(input.Email) > maxEmailLen {
		return nil, apperror.NewValidation(fmt.Sprintf("Email must be at most %d characters", maxEmailLen))
	}

	// Check before the expensive hash; the store constraint still catches races.
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking user existence: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("Username or email already exists")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if apperror.IsCode(err, http.StatusConflict) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates by username and password and opens a session.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			burnVerify(input.Password)
			return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
	}

	ttl, maxAge := s.browserTTL, 0
	if input.Remember {
		ttl, maxAge = s.sessionTTL, int(s.sessionTTL.Seconds())
	}

	token, err := s.sessions.Create(ctx, user.ID, ttl)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("remember", input.Remember),
	)

	return &LoginResult{Token: token, MaxAge: maxAge, User: user}, nil
}

// ValidateSession resolves a session token to the current identity. The
// user is reloaded on every call so admin rights revoked in the store take
// effect on the next request.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Identity, error) {
	session, err := s.sessions.Lookup(ctx, token)
	if errors.Is(err, errInvalidSession) {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, apperror.NewUnauthorized("session expired or invalid")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading session user: %w", err))
	}

	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// Logout ends the session behind token. Logging out twice is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}
