// Package store keeps the stub server's users, catalog and carts in memory.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/atinyakov/QKart/internal/models"
)

var (
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user has the given username.
	ErrUserNotFound = errors.New("user not found")
)

// MemoryStore is a concurrency-safe in-memory repository.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	products []models.Product
	carts    map[string][]models.CartReference
}

// NewMemoryStore creates a store serving products. Products without an ID
// get a fresh one.
func NewMemoryStore(products []models.Product) *MemoryStore {
	catalog := make([]models.Product, len(products))
	for i, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		catalog[i] = p
	}
	return &MemoryStore{
		users:    make(map[string]models.User),
		products: catalog,
		carts:    make(map[string][]models.CartReference),
	}
}

// CreateUser stores u, assigning an ID when it has none.
func (s *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Username]; ok {
		return models.User{}, ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.Username] = u
	return u, nil
}

// UserByName returns the user registered as username.
func (s *MemoryStore) UserByName(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

// Products returns the whole catalog.
func (s *MemoryStore) Products(context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...), nil
}

// Product looks a product up by ID.
func (s *MemoryStore) Product(_ context.Context, id string) (models.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

// Search returns the products whose name or category contains query,
// ignoring case.
func (s *MemoryStore) Search(_ context.Context, query string) ([]models.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Cart returns the references held for userID.
func (s *MemoryStore) Cart(_ context.Context, userID string) ([]models.CartReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartReference{}, s.carts[userID]...), nil
}

// SetCartItem sets the quantity of productID in the cart of userID and
// returns the whole cart. Zero removes the reference; new references are
// appended.
func (s *MemoryStore) SetCartItem(_ context.Context, userID, productID string, qty int) ([]models.CartReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.carts[userID]
	idx := -1
	for i, ref := range refs {
		if ref.ProductID == productID {
			idx = i
			break
		}
	}

	switch {
	case qty == 0 && idx >= 0:
		refs = append(refs[:idx:idx], refs[idx+1:]...)
	case qty == 0:
	case idx >= 0:
		refs[idx].Qty = qty
	default:
		refs = append(refs, models.CartReference{ProductID: productID, Qty: qty})
	}
	s.carts[userID] = refs
	return append([]models.CartReference{}, refs...), nil
}
