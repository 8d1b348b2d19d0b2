package service

import (
	"context"
	"errors"

	"github.com/atinyakov/QKart/internal/models"
)

var (
	// ErrNoSuchProduct is a cart write for a product outside the catalog.
	ErrNoSuchProduct = errors.New("product doesn't exist")
	// ErrNegativeQty is a cart write with a quantity below zero.
	ErrNegativeQty = errors.New("quantity cannot be negative")
)

// CartRepository defines the catalog and cart persistence the cart service needs.
type CartRepository interface {
	Product(ctx context.Context, id string) (models.Product, bool, error)
	Cart(ctx context.Context, userID string) ([]models.CartReference, error)
	SetCartItem(ctx context.Context, userID, productID string, qty int) ([]models.CartReference, error)
}

// CartService validates cart writes.
type CartService struct {
	repo CartRepository
}

// NewCartService constructs a CartService.
func NewCartService(repo CartRepository) *CartService {
	return &CartService{repo: repo}
}

// Cart returns the cart of userID.
func (s *CartService) Cart(ctx context.Context, userID string) ([]models.CartReference, error) {
	return s.repo.Cart(ctx, userID)
}

// SetCartItem sets the quantity of a catalog product and returns the whole cart.
func (s *CartService) SetCartItem(ctx context.Context, userID, productID string, qty int) ([]models.CartReference, error) {
	if qty < 0 {
		return nil, ErrNegativeQty
	}
	if _, ok, err := s.repo.Product(ctx, productID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNoSuchProduct
	}
	return s.repo.SetCartItem(ctx, userID, productID, qty)
}
