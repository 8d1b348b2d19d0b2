package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/QKart/internal/server/service"
)

// AuthService defines the account operations required by the AuthHandler.
type AuthService interface {
	// Register creates an account.
	Register(ctx context.Context, username, password string) error
	// Login checks the credentials and returns a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// credentials represents the JSON payload of both auth endpoints.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{"success": true})
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username is already taken")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Login handles POST /auth/login and returns the token and the username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"token":    token,
			"username": req.Username,
		})
	case errors.Is(err, service.ErrUnknownUser):
		writeError(w, http.StatusBadRequest, "Username does not exist")
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "Password is incorrect")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
