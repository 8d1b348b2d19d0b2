package storefront

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/service"
)

type mockCatalog struct {
	ProductsFunc func(ctx context.Context) ([]models.Product, error)
	SearchFunc   func(ctx context.Context, query string) ([]models.Product, error)
}

func (m *mockCatalog) Products(ctx context.Context) ([]models.Product, error) {
	return m.ProductsFunc(ctx)
}
func (m *mockCatalog) Search(ctx context.Context, query string) ([]models.Product, error) {
	return m.SearchFunc(ctx, query)
}

type mockCart struct {
	CartFunc        func(ctx context.Context, token string) ([]models.CartReference, error)
	SetCartItemFunc func(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error)

	fetches int
	writes  int
}

func (m *mockCart) Cart(ctx context.Context, token string) ([]models.CartReference, error) {
	m.fetches++
	return m.CartFunc(ctx, token)
}
func (m *mockCart) SetCartItem(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error) {
	m.writes++
	return m.SetCartItemFunc(ctx, token, productID, qty)
}

var products = []models.Product{
	{ID: "a", Name: "Bag", Category: "Fashion", Cost: 50, Rating: 4},
	{ID: "b", Name: "Shoes", Category: "Fashion", Cost: 20, Rating: 5},
	{ID: "c", Name: "Camera", Category: "Electronics", Cost: 300, Rating: 3},
}

func newStorefront(t *testing.T, catalog *mockCatalog, carts *mockCart) *Storefront {
	t.Helper()
	search := service.NewSearchService(catalog, time.Hour, nil)
	s := New(catalog, service.NewCartService(carts), search, nil)
	t.Cleanup(s.Close)
	return s
}

func okCatalog() *mockCatalog {
	return &mockCatalog{
		ProductsFunc: func(context.Context) ([]models.Product, error) { return products, nil },
	}
}

func TestLoad_CatalogFailureSkipsCart(t *testing.T) {
	catalog := &mockCatalog{
		ProductsFunc: func(context.Context) ([]models.Product, error) {
			return nil, &api.FetchFailedError{Op: "GET /products", Status: 500, Message: api.MsgBackendDown}
		},
	}
	carts := &mockCart{}
	s := newStorefront(t, catalog, carts)
	s.SetSession(models.Session{Token: "tok", Username: "crio"})

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Zero(t, carts.fetches, "cart must not be fetched before the catalog loaded")
	assert.Empty(t, s.Catalog())
	assert.Equal(t, []Notification{{Level: LevelError, Message: api.MsgBackendDown}}, s.Notifications())
}

func TestLoad_FetchesCartAfterCatalog(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(_ context.Context, token string) ([]models.CartReference, error) {
			assert.Equal(t, "tok", token)
			return []models.CartReference{{ProductID: "b", Qty: 2}, {ProductID: "zzz", Qty: 1}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok", Username: "crio"})

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 1, carts.fetches)
	assert.Equal(t, products, s.Listing())

	want := []models.CartLineItem{{ProductID: "b", Name: "Shoes", Category: "Fashion", Cost: 20, Rating: 5, Qty: 2}}
	if diff := cmp.Diff(want, s.Items()); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.OrderSummary{Products: 2, Subtotal: 40, Shipping: 0, Total: 40}, s.Summary())
}

func TestLoad_AnonymousSkipsCart(t *testing.T) {
	carts := &mockCart{}
	s := newStorefront(t, okCatalog(), carts)

	require.NoError(t, s.Load(context.Background()))
	assert.Zero(t, carts.fetches)
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Notifications())
}

func TestRefreshCart_FailureKeepsPreviousCart(t *testing.T) {
	fail := false
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			if fail {
				return nil, &api.FetchFailedError{Op: "GET /cart", Status: 500, Message: api.MsgCartFetch}
			}
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	fail = true
	require.Error(t, s.RefreshCart(context.Background()))
	assert.Equal(t, []models.CartReference{{ProductID: "a", Qty: 1}}, s.References())
	assert.Equal(t, api.MsgCartFetch, s.Notifications()[0].Message)
}

func TestAddToCart(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
		SetCartItemFunc: func(_ context.Context, _, productID string, qty int) ([]models.CartReference, error) {
			assert.Equal(t, 1, qty)
			return []models.CartReference{{ProductID: "a", Qty: 1}, {ProductID: productID, Qty: qty}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.AddToCart(context.Background(), "c"))
	assert.True(t, s.InCart("c"))
	assert.Equal(t, 350.0, s.Summary().Subtotal)

	err := s.AddToCart(context.Background(), "a")
	assert.True(t, api.Rejected(err, api.ReasonDuplicate))
	assert.Equal(t, 1, carts.writes, "duplicate add must not reach the server")
	assert.Equal(t, []Notification{{Level: LevelWarning, Message: api.MsgDuplicate}}, s.TakeNotifications())
	assert.Empty(t, s.Notifications())
}

func TestAddToCart_LoggedOut(t *testing.T) {
	carts := &mockCart{}
	s := newStorefront(t, okCatalog(), carts)
	require.NoError(t, s.Load(context.Background()))

	err := s.AddToCart(context.Background(), "a")
	require.ErrorIs(t, err, api.ErrAuthRequired)
	assert.Zero(t, carts.writes)
	assert.Equal(t, []Notification{{Level: LevelWarning, Message: api.MsgLoginRequired}}, s.Notifications())
}

func TestSetQuantity_ServerMessageSurfaces(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
		SetCartItemFunc: func(context.Context, string, string, int) ([]models.CartReference, error) {
			return nil, &api.RejectedError{Reason: api.ReasonServer, Status: 400, Message: "Product doesn't exist"}
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	require.Error(t, s.SetQuantity(context.Background(), "a", 3))
	assert.Equal(t, []models.CartReference{{ProductID: "a", Qty: 1}}, s.References())
	assert.Equal(t, "Product doesn't exist", s.Notifications()[0].Message)
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
		SetCartItemFunc: func(context.Context, string, string, int) ([]models.CartReference, error) {
			return nil, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.SetQuantity(context.Background(), "a", 0))
	assert.Empty(t, s.References())
	assert.Empty(t, s.Items())
	assert.Equal(t, models.OrderSummary{}, s.Summary())
}

func TestItems_JoinsOncePerRevision(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	s.Items()
	s.Items()
	s.Summary()
	assert.Equal(t, 1, s.view.Joins())

	require.NoError(t, s.RefreshCart(context.Background()))
	s.Items()
	assert.Equal(t, 2, s.view.Joins())
}

func TestLogout_EmptiesCart(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))
	require.Len(t, s.Items(), 1)

	s.SetSession(models.Session{})
	assert.Empty(t, s.Items())
	assert.False(t, s.Session().Authenticated())
}

func TestSearchNow_Policy(t *testing.T) {
	catalog := okCatalog()
	catalog.SearchFunc = func(_ context.Context, q string) ([]models.Product, error) {
		switch q {
		case "bag":
			return products[:1], nil
		case "nothing":
			return nil, api.ErrNotFound
		default:
			return nil, &api.FetchFailedError{Op: "GET /products/search", Status: 503, Message: api.MsgBackendDown}
		}
	}
	s := newStorefront(t, catalog, &mockCart{})
	require.NoError(t, s.Load(context.Background()))
	ctx := context.Background()

	s.SearchNow(ctx, "bag")
	assert.Equal(t, products[:1], s.Listing())
	assert.False(t, s.NotFound())

	s.SearchNow(ctx, "nothing")
	assert.True(t, s.NotFound())
	assert.Equal(t, products[:1], s.Listing(), "not-found keeps the previous listing")

	s.SearchNow(ctx, "boom")
	assert.True(t, s.NotFound(), "server errors leave not-found alone")
	assert.Equal(t, products[:1], s.Listing())
	assert.Equal(t, []Notification{{Level: LevelError, Message: api.MsgBackendDown}}, s.Notifications())

	s.SearchNow(ctx, "")
	assert.Equal(t, products, s.Listing())
	assert.False(t, s.NotFound())
}

func TestSearch_DebouncedUpdatesListing(t *testing.T) {
	catalog := okCatalog()
	catalog.SearchFunc = func(context.Context, string) ([]models.Product, error) {
		return products[2:], nil
	}
	search := service.NewSearchService(catalog, 10*time.Millisecond, nil)
	s := New(catalog, service.NewCartService(&mockCart{}), search, nil)
	defer s.Close()

	changed := make(chan struct{}, 8)
	s.OnChange(func() { changed <- struct{}{} })

	s.Search("cam")
	s.Search("came")
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never applied")
	}
	assert.Equal(t, products[2:], s.Listing())
}

func TestReport_Classification(t *testing.T) {
	s := newStorefront(t, okCatalog(), &mockCart{})
	s.report(&api.AuthRequiredError{Message: "expired"}, api.MsgCartFetch)
	s.report(errors.New("boom"), api.MsgCartFetch)
	assert.Equal(t, []Notification{
		{Level: LevelWarning, Message: api.MsgLoginRequired},
		{Level: LevelError, Message: api.MsgCartFetch},
	}, s.Notifications())
}

func TestSearch_StaleResultDropped(t *testing.T) {
	catalog := okCatalog()
	catalog.SearchFunc = func(_ context.Context, q string) ([]models.Product, error) {
		if q == "camera" {
			return products[2:], nil
		}
		return products[:1], nil
	}
	search := service.NewSearchService(catalog, time.Hour, nil)
	s := New(catalog, service.NewCartService(&mockCart{}), search, nil)
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	var landed []service.SearchResult
	s.OnSearch(func(res service.SearchResult) { landed = append(landed, res) })

	// Started first, lands last: an older debounced request still in flight.
	older := search.Search(context.Background(), "camera")
	s.SearchNow(context.Background(), "bag")
	s.searchLanded(older)

	assert.Equal(t, products[:1], s.Listing())
	assert.Empty(t, landed)
}

func TestSearch_OnSearchReceivesDebouncedOutcome(t *testing.T) {
	catalog := okCatalog()
	catalog.SearchFunc = func(context.Context, string) ([]models.Product, error) {
		return nil, api.ErrNotFound
	}
	search := service.NewSearchService(catalog, 50*time.Millisecond, nil)
	s := New(catalog, service.NewCartService(&mockCart{}), search, nil)
	defer s.Close()

	results := make(chan service.SearchResult, 1)
	s.OnSearch(func(res service.SearchResult) { results <- res })

	s.Search("nothing")
	// Unrelated state changes must not swallow the pending result.
	require.NoError(t, s.Load(context.Background()))

	select {
	case res := <-results:
		assert.Equal(t, service.SearchNotFound, res.Outcome)
		assert.Equal(t, "nothing", res.Query)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced result never delivered")
	}
	assert.Equal(t, products, s.Listing())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	carts := &mockCart{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: "a", Qty: 1}}, nil
		},
	}
	s := newStorefront(t, okCatalog(), carts)
	s.SetSession(models.Session{Token: "tok"})
	require.NoError(t, s.Load(context.Background()))

	items := s.Items()
	require.Len(t, items, 1)
	items[0].Qty = 99
	s.Listing()[0].Name = "changed"
	s.Catalog()[1].Cost = 0

	assert.Equal(t, 1, s.Items()[0].Qty)
	assert.Equal(t, 1, s.view.Joins(), "cached join must survive caller edits")
	assert.Equal(t, "Bag", s.Listing()[0].Name)
	assert.Equal(t, float64(20), s.Catalog()[1].Cost)
	assert.Equal(t, "Bag", products[0].Name)
}
