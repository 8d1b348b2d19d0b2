// Package service implements the stub server's account and cart rules on top
// of a repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/server/store"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	// ErrInvalidInput is a registration with a blank username or a short password.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUsernameTaken is a registration with an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrUnknownUser is a login for a username nobody registered.
	ErrUnknownUser = errors.New("username does not exist")
	// ErrWrongPassword is a login with a mismatching password.
	ErrWrongPassword = errors.New("password is incorrect")
)

// UserRepository defines the user persistence the auth service needs.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByName(ctx context.Context, username string) (models.User, error)
}

// AuthService registers users and logs them in.
type AuthService struct {
	users  UserRepository
	tokens *Tokens
	cost   int
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, tokens *Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash})
	if errors.Is(err, store.ErrUserExists) {
		return ErrUsernameTaken
	}
	return err
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.UserByName(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrUserNotFound) {
		return "", ErrUnknownUser
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", ErrWrongPassword
	}
	return s.tokens.Issue(u.ID, u.Username)
}
