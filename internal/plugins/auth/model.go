// Package auth handles user accounts, credentials, sessions and the access
// gates in front of protected routes. Sessions live in Redis and are
// referenced by a signed cookie; the identity is re-read from the user store
// on every request.
package auth

import (
	"errors"
	"time"
)

// User represents a registered account. Database scanning, the file store
// and JSON encoding all use this struct directly.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordID implements filestore.Record.
func (u User) RecordID() string { return u.ID }

// Validate rejects records missing required fields before they are stored.
func (u User) Validate() error {
	switch {
	case u.ID == "":
		return errors.New("user id is required")
	case u.Username == "":
		return errors.New("username is required")
	case u.Email == "":
		return errors.New("email is required")
	case u.PasswordHash == "":
		return errors.New("password hash is required")
	case u.CreatedAt.IsZero():
		return errors.New("created_at is required")
	}
	return nil
}

// Identity is the authenticated principal attached to a request. IsAdmin is
// taken from the stored user on every request, never from the session.
type Identity struct {
	UserID   string
	Username string
	Email    string
	IsAdmin  bool
}

// CanManageCatalog reports whether the identity may add or remove movies.
// A nil identity cannot.
func (i *Identity) CanManageCatalog() bool {
	return i != nil && i.IsAdmin
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest holds the data submitted by the signup form.
type SignupRequest struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Remember string `form:"remember"`
	Next     string `form:"next"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the input for creating a new user.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginInput is the input for authenticating a user. Remember asks for a
// long-lived session instead of one that ends with the browser.
type LoginInput struct {
	Username string
	Password string
	Remember bool
}

// LoginResult is returned on a successful login. MaxAge is the cookie
// lifetime in seconds; zero means a browser-session cookie.
type LoginResult struct {
	Token  string
	MaxAge int
	User   *User
}

// --- Session ---

// Session is the server-side session record stored in Redis under its
// session id. It only binds the session to a user.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
