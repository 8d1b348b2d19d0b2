package service

import (
	"context"

	"github.com/atinyakov/QKart/internal/cart"
	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/models"
)

// CartAPI defines the remote cart store operations.
type CartAPI interface {
	// Cart returns the references of the user owning token.
	Cart(ctx context.Context, token string) ([]models.CartReference, error)
	// SetCartItem replaces the quantity of productID and returns the updated cart.
	SetCartItem(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error)
}

// CartService keeps the local cart consistent with the remote store. The
// server is the single source of truth: every successful call returns the
// complete reference list, which callers must adopt wholesale.
type CartService struct {
	api CartAPI
}

// NewCartService constructs a CartService.
func NewCartService(api CartAPI) *CartService {
	return &CartService{api: api}
}

// Fetch reads the remote cart. Without a credential it returns
// api.ErrAuthRequired and makes no call. On failure callers keep their
// previous references.
func (s *CartService) Fetch(ctx context.Context, sess models.Session) ([]models.CartReference, error) {
	if !sess.Authenticated() {
		return nil, api.ErrAuthRequired
	}
	return s.api.Cart(ctx, sess.Token)
}

// Add is the "add new item" entry point. A product already in known at a
// non-zero quantity is rejected locally as a duplicate, without a call.
func (s *CartService) Add(ctx context.Context, sess models.Session, known []models.CartReference, productID string, qty int) ([]models.CartReference, error) {
	if !sess.Authenticated() {
		return nil, api.ErrAuthRequired
	}
	if ref, ok := cart.Find(known, productID); ok && ref.Qty > 0 {
		return nil, &api.RejectedError{Reason: api.ReasonDuplicate, Message: api.MsgDuplicate}
	}
	return s.SetQuantity(ctx, sess, productID, qty)
}

// SetQuantity is the "change quantity" entry point; it always calls through
// once the credential and quantity checks pass. Zero removes the product.
func (s *CartService) SetQuantity(ctx context.Context, sess models.Session, productID string, qty int) ([]models.CartReference, error) {
	if !sess.Authenticated() {
		return nil, api.ErrAuthRequired
	}
	if qty < 0 {
		return nil, &api.RejectedError{Reason: api.ReasonInvalidQuantity, Message: api.MsgBadQuantity}
	}
	return s.api.SetCartItem(ctx, sess.Token, productID, qty)
}
