package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

// errInvalidSession covers every way a presented token can fail: bad
// signature, expiry, or a session record that no longer exists.
var errInvalidSession = errors.New("session expired or invalid")

// sessionClaims is carried in the cookie. ID is the Redis session id and
// Subject the user id.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// SessionStore issues signed session tokens backed by Redis records.
// Deleting the record revokes the token even before it expires.
type SessionStore struct {
	redis  *redis.Client
	secret []byte
}

// NewSessionStore creates a session store signing tokens with secret.
func NewSessionStore(rdb *redis.Client, secret string) *SessionStore {
	return &SessionStore{redis: rdb, secret: []byte(secret)}
}

// Create stores a session for userID that lives for ttl and returns the
// signed token for the cookie.
func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	sid := uuid.NewString()

	data, err := json.Marshal(Session{
		UserID:    userID,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+sid, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session in Redis: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Lookup verifies token and returns its session record. It returns
// errInvalidSession for any token that should be treated as anonymous.
func (s *SessionStore) Lookup(ctx context.Context, token string) (*Session, error) {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil, errInvalidSession
	}

	data, err := s.redis.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from Redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &session, nil
}

// Destroy deletes the session behind token. Unknown or invalid tokens are
// not an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	sid, err := s.sessionID(token)
	if err != nil {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("deleting session from Redis: %w", err)
	}
	return nil
}

// sessionID verifies the token signature and expiry and returns the
// session id it carries.
func (s *SessionStore) sessionID(token string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.ID == "" {
		return "", errInvalidSession
	}
	return claims.ID, nil
}
