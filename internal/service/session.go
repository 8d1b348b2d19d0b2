// Package service provides the client business logic: the session
// lifecycle, cart synchronization and catalog search.
package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/repository"
)

// Durable storage keys, as the web client kept them in localStorage.
const (
	KeyToken    = "token"
	KeyUsername = "username"
)

// StorageRepository defines the durable key/value operations the session needs.
type StorageRepository interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes entries atomically with a shared unix expiry (0 never expires).
	Set(ctx context.Context, expiresAt int64, entries ...repository.Entry) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Authenticator performs the remote login and registration calls.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, username, password string) error
}

// SessionService owns the session lifecycle: created at login, cleared at
// logout, read by every cart-affecting action.
type SessionService struct {
	repo StorageRepository
	auth Authenticator
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo StorageRepository, auth Authenticator) *SessionService {
	return &SessionService{repo: repo, auth: auth}
}

// Login authenticates and persists the resulting session.
func (s *SessionService) Login(ctx context.Context, username, password string) (models.Session, error) {
	sess, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}

	err = s.repo.Set(ctx, tokenExpiry(sess.Token),
		repository.Entry{Key: KeyToken, Value: sess.Token},
		repository.Entry{Key: KeyUsername, Value: sess.Username},
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Register creates an account without logging in.
func (s *SessionService) Register(ctx context.Context, username, password string) error {
	return s.auth.Register(ctx, username, password)
}

// Logout wipes durable storage.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current reads the persisted session. A missing or expired token yields a
// zero Session and no error.
func (s *SessionService) Current(ctx context.Context) (models.Session, error) {
	token, ok, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return models.Session{}, nil
	}

	username, _, err := s.repo.Get(ctx, KeyUsername)
	if err != nil {
		return models.Session{}, fmt.Errorf("read username: %w", err)
	}
	return models.Session{Token: token, Username: username}, nil
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature;
// the client cannot verify it and only uses it to forget stale tokens. Opaque
// tokens, or JWTs without exp, never expire locally.
func tokenExpiry(token string) int64 {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Unix()
}
