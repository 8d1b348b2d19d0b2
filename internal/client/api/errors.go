package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// User-facing fallbacks for responses that carry no usable message.
const (
	MsgBackendDown   = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
	MsgCartFetch     = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
	MsgCartUpdate    = "Could not update the cart. Check that the backend is running, reachable and returns valid JSON."
	MsgLoginRequired = "Login to add an item to the Cart"
	MsgDuplicate     = "Item already in cart. Use the cart sidebar to update quantity or remove item."
	MsgBadQuantity   = "Quantity cannot be negative."
	MsgNotFound      = "No products found"
)

// Rejection reasons.
const (
	ReasonDuplicate       = "duplicate"
	ReasonInvalidQuantity = "invalid quantity"
	ReasonServer          = "server"
)

var (
	// ErrAuthRequired means no credential was available, or the server refused it.
	ErrAuthRequired = errors.New("login required")
	// ErrNotFound means a search matched nothing.
	ErrNotFound = errors.New("no products found")
)

// AuthRequiredError is a 401 from the server. It matches ErrAuthRequired.
type AuthRequiredError struct {
	Message string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAuthRequired, e.Message)
}

// Is makes errors.Is(err, ErrAuthRequired) hold.
func (e *AuthRequiredError) Is(target error) bool {
	return target == ErrAuthRequired
}

// FetchFailedError is a transport failure or an unexpected server response.
type FetchFailedError struct {
	// Op names the call, e.g. "GET /cart".
	Op string
	// Status is the HTTP status, 0 when the request never got a response.
	Status int
	// Message is safe to show to the user.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *FetchFailedError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchFailedError) Unwrap() error { return e.Err }

// RejectedError is a write refused by local policy or by the server (4xx).
type RejectedError struct {
	Reason  string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%s): %s", e.Reason, e.Message)
}

// Rejected reports whether err is a rejection for the given reason.
func Rejected(err error, reason string) bool {
	var rej *RejectedError
	return errors.As(err, &rej) && rej.Reason == reason
}

// UserMessage extracts the message to show for err, or fallback.
func UserMessage(err error, fallback string) string {
	var (
		rej   *RejectedError
		fetch *FetchFailedError
		auth  *AuthRequiredError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rej) && rej.Message != "":
		return rej.Message
	case errors.As(err, &auth) && auth.Message != "":
		return auth.Message
	case errors.As(err, &fetch) && fetch.Message != "":
		return fetch.Message
	}
	return fallback
}

// errorBody is the {success, message} envelope of failed QKart responses.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// serverMessage returns the message field of a QKart error body, or fallback
// when the body is empty, not JSON, or lacks a message.
func serverMessage(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg
	}
	return fallback
}
