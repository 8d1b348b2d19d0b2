// Package http provides HTTP routing and handlers for the QKart stub server.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/QKart/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the QKart API
// under /api/v1.
//
// Routes:
//
//	GET  /api/v1/products         → catalogHandler.Products
//	GET  /api/v1/products/search  → catalogHandler.Search
//	POST /api/v1/auth/register    → authHandler.Register
//	POST /api/v1/auth/login       → authHandler.Login
//	GET  /api/v1/cart             → cartHandler.Get (bearer token)
//	POST /api/v1/cart             → cartHandler.Set (bearer token)
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json") rejects non-JSON bodies
//  2. WithRequestLogging(logger) logs served requests
//  3. BearerAuth(verifier) guards the cart routes
func NewRouter(
	catalogHandler *CatalogHandler,
	authHandler *AuthHandler,
	cartHandler *CartHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/products", catalogHandler.Products)
		r.Get("/products/search", catalogHandler.Search)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))
			r.Get("/cart", cartHandler.Get)
			r.Post("/cart", cartHandler.Set)
		})
	})

	return r
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a QKart error body {success: false, message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
