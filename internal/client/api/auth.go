package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/QKart/internal/models"
)

// Credentials is the body of the login and register calls.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (models.Session, error) {
	const op = "POST /auth/login"

	resp, err := c.send(ctx, http.MethodPost, "/auth/login", "", Credentials{Username: username, Password: password})
	if err != nil {
		return models.Session{}, &FetchFailedError{Op: op, Message: MsgBackendDown, Err: err}
	}
	switch {
	case resp.status == http.StatusOK || resp.status == http.StatusCreated:
	case isClientError(resp.status):
		return models.Session{}, &RejectedError{Reason: ReasonServer, Status: resp.status, Message: serverMessage(resp.body, "Invalid username or password")}
	default:
		return models.Session{}, &FetchFailedError{Op: op, Status: resp.status, Message: MsgBackendDown}
	}

	var out LoginResponse
	if err := json.Unmarshal(resp.body, &out); err != nil || out.Token == "" {
		return models.Session{}, &FetchFailedError{Op: op, Status: resp.status, Message: MsgBackendDown, Err: err}
	}
	if out.Username == "" {
		out.Username = username
	}
	return models.Session{Token: out.Token, Username: out.Username}, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	const op = "POST /auth/register"

	resp, err := c.send(ctx, http.MethodPost, "/auth/register", "", Credentials{Username: username, Password: password})
	if err != nil {
		return &FetchFailedError{Op: op, Message: MsgBackendDown, Err: err}
	}
	switch {
	case resp.status == http.StatusOK || resp.status == http.StatusCreated:
		return nil
	case isClientError(resp.status):
		return &RejectedError{Reason: ReasonServer, Status: resp.status, Message: serverMessage(resp.body, "Registration failed")}
	default:
		return &FetchFailedError{Op: op, Status: resp.status, Message: MsgBackendDown}
	}
}
