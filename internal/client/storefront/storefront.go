// Package storefront holds the client-side state of a shopping session: the
// catalog, the displayed listing, the server-confirmed cart and the
// notifications raised along the way.
package storefront

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/QKart/internal/cart"
	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/service"
)

// Level is the severity of a Notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a short message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Storefront is safe for concurrent use; debounced searches land on a timer
// goroutine.
type Storefront struct {
	catalogAPI service.CatalogAPI
	carts      *service.CartService
	search     *service.SearchService
	log        *zap.Logger

	mu         sync.Mutex
	session    models.Session
	catalog    []models.Product
	catalogRev uint64
	listing    []models.Product
	refs       []models.CartReference
	refsRev    uint64
	notFound   bool
	searchSeq  uint64
	notes      []Notification
	onChange   func()
	onSearch   func(service.SearchResult)

	view cart.View
}

// New wires a Storefront and subscribes it to debounced search results.
func New(catalogAPI service.CatalogAPI, carts *service.CartService, search *service.SearchService, log *zap.Logger) *Storefront {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Storefront{
		catalogAPI: catalogAPI,
		carts:      carts,
		search:     search,
		log:        log,
		catalog:    []models.Product{},
		listing:    []models.Product{},
		refs:       []models.CartReference{},
	}
	search.Listen(context.Background(), s.searchLanded)
	return s
}

// OnChange registers fn to run after every state change. fn runs without the
// lock held and may call back into the Storefront.
func (s *Storefront) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// OnSearch registers fn to receive every debounced search result that was
// applied. Results overtaken by a newer search are dropped and never reach fn.
func (s *Storefront) OnSearch(fn func(service.SearchResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSearch = fn
}

// SetSession applies a login or logout. Logging out empties the cart.
func (s *Storefront) SetSession(sess models.Session) {
	s.mu.Lock()
	s.session = sess
	if !sess.Authenticated() {
		s.refs = []models.CartReference{}
		s.refsRev++
	}
	s.mu.Unlock()
	s.changed()
}

// Session returns the current session.
func (s *Storefront) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Load fetches the catalog and, only once that succeeded and a credential is
// present, the cart.
func (s *Storefront) Load(ctx context.Context) error {
	products, err := s.catalogAPI.Products(ctx)
	if err != nil {
		s.notify(LevelError, api.UserMessage(err, api.MsgBackendDown))
		s.log.Error("failed to load catalog", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.catalog = products
	s.catalogRev++
	s.listing = products
	s.notFound = false
	sess := s.session
	s.mu.Unlock()
	s.changed()

	if !sess.Authenticated() {
		return nil
	}
	return s.RefreshCart(ctx)
}

// RefreshCart replaces the cart with the server's copy. On failure the last
// known cart is kept.
func (s *Storefront) RefreshCart(ctx context.Context) error {
	refs, err := s.carts.Fetch(ctx, s.Session())
	if err != nil {
		s.report(err, api.MsgCartFetch)
		return err
	}
	s.adopt(refs)
	return nil
}

// AddToCart adds one unit of a product that is not in the cart yet.
func (s *Storefront) AddToCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	sess, known := s.session, s.refs
	s.mu.Unlock()

	refs, err := s.carts.Add(ctx, sess, known, productID, 1)
	if err != nil {
		s.report(err, api.MsgCartUpdate)
		return err
	}
	s.adopt(refs)
	return nil
}

// SetQuantity changes the quantity of a product; zero removes it.
func (s *Storefront) SetQuantity(ctx context.Context, productID string, qty int) error {
	refs, err := s.carts.SetQuantity(ctx, s.Session(), productID, qty)
	if err != nil {
		s.report(err, api.MsgCartUpdate)
		return err
	}
	s.adopt(refs)
	return nil
}

// Search schedules a debounced search for query.
func (s *Storefront) Search(query string) {
	s.search.Input(query)
}

// SearchNow drops any pending debounced search and runs query immediately.
func (s *Storefront) SearchNow(ctx context.Context, query string) service.SearchResult {
	s.search.Cancel()
	res := s.search.Search(ctx, query)
	s.applySearch(res)
	return res
}

// Close drops any pending debounced search.
func (s *Storefront) Close() {
	s.search.Cancel()
}

func (s *Storefront) searchLanded(res service.SearchResult) {
	if !s.applySearch(res) {
		return
	}
	s.mu.Lock()
	fn := s.onSearch
	s.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// applySearch reports false when res started before the last applied search.
func (s *Storefront) applySearch(res service.SearchResult) bool {
	s.mu.Lock()
	if res.Seq < s.searchSeq {
		s.mu.Unlock()
		s.log.Debug("dropping stale search result", zap.String("query", res.Query))
		return false
	}
	s.searchSeq = res.Seq

	switch res.Outcome {
	case service.SearchReplaced:
		s.listing = res.Products
		s.notFound = false
	case service.SearchNotFound:
		s.notFound = true
	case service.SearchFailed:
		s.mu.Unlock()
		s.notify(LevelError, api.UserMessage(res.Err, api.MsgBackendDown))
		return true
	}
	s.mu.Unlock()
	s.changed()
	return true
}

func (s *Storefront) adopt(refs []models.CartReference) {
	if refs == nil {
		refs = []models.CartReference{}
	}
	s.mu.Lock()
	s.refs = refs
	s.refsRev++
	s.mu.Unlock()
	s.changed()
}

func (s *Storefront) report(err error, fallback string) {
	switch {
	case errors.Is(err, api.ErrAuthRequired):
		s.notify(LevelWarning, api.MsgLoginRequired)
	case api.Rejected(err, api.ReasonDuplicate):
		s.notify(LevelWarning, api.MsgDuplicate)
	default:
		s.notify(LevelError, api.UserMessage(err, fallback))
	}
	s.log.Debug("cart operation failed", zap.Error(err))
}

func (s *Storefront) notify(level Level, msg string) {
	s.mu.Lock()
	s.notes = append(s.notes, Notification{Level: level, Message: msg})
	s.mu.Unlock()
	s.changed()
}

func (s *Storefront) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Items returns a copy of the cart joined with the catalog. The join is
// cached until either the cart or the catalog is replaced.
func (s *Storefront) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.view.Recompute(s.refsRev, s.catalogRev, s.refs, s.catalog))
}

// Summary returns the checkout totals.
func (s *Storefront) Summary() models.OrderSummary {
	return cart.Summarize(s.Items())
}

// References returns the server-confirmed cart.
func (s *Storefront) References() []models.CartReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.refs)
}

// InCart reports whether productID is in the cart.
func (s *Storefront) InCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Contains(s.refs, productID)
}

// Catalog returns the full product list loaded at startup.
func (s *Storefront) Catalog() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.catalog)
}

// Listing returns the products currently on display.
func (s *Storefront) Listing() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.listing)
}

// NotFound reports whether the last search matched nothing.
func (s *Storefront) NotFound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notFound
}

// Notifications returns every notification raised so far.
func (s *Storefront) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// TakeNotifications returns the pending notifications and forgets them.
func (s *Storefront) TakeNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := s.notes
	s.notes = nil
	return notes
}
