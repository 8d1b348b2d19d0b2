package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/QKart/internal/middleware"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/server/service"
)

// CartService defines the cart operations required by the CartHandler.
type CartService interface {
	Cart(ctx context.Context, userID string) ([]models.CartReference, error)
	SetCartItem(ctx context.Context, userID, productID string, qty int) ([]models.CartReference, error)
}

// CartHandler handles the cart of the authenticated user.
type CartHandler struct {
	CartService CartService
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refs, err := h.CartService.Cart(ctx, middleware.GetUserIDFromContext(ctx))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

// Set handles POST /cart with a {productId, qty} body and returns the
// updated cart.
func (h *CartHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)

	var req models.CartReference
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	refs, err := h.CartService.SetCartItem(ctx, userID, req.ProductID, req.Qty)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, refs)
	case errors.Is(err, service.ErrNoSuchProduct):
		writeError(w, http.StatusBadRequest, "Product doesn't exist")
	case errors.Is(err, service.ErrNegativeQty):
		writeError(w, http.StatusBadRequest, "Quantity cannot be negative")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
