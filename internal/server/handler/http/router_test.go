package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/server/service"
	"github.com/atinyakov/QKart/internal/server/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	repo := store.NewMemoryStore([]models.Product{
		{ID: "p1", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4},
		{ID: "p2", Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5},
	})
	tokens := service.NewTokens("test-secret", time.Hour)
	router := NewRouter(
		&CatalogHandler{CatalogService: repo},
		&AuthHandler{AuthService: service.NewAuthService(repo, tokens)},
		&CartHandler{CartService: service.NewCartService(repo)},
		tokens,
		zap.NewNop(),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, api.New(srv.URL+"/api/v1", srv.Client(), nil)
}

func TestRouter_ClientRoundTrip(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	products, err := client.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	found, err := client.Search(ctx, "leather")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = client.Search(ctx, "spaceship")
	assert.ErrorIs(t, err, api.ErrNotFound)

	require.NoError(t, client.Register(ctx, "crio", "learnbydoing"))
	err = client.Register(ctx, "crio", "learnbydoing")
	assert.Equal(t, "Username is already taken", api.UserMessage(err, ""))

	_, err = client.Login(ctx, "crio", "nope-nope")
	assert.Equal(t, "Password is incorrect", api.UserMessage(err, ""))

	sess, err := client.Login(ctx, "crio", "learnbydoing")
	require.NoError(t, err)
	assert.Equal(t, "crio", sess.Username)
	require.True(t, sess.Authenticated())

	refs, err := client.Cart(ctx, sess.Token)
	require.NoError(t, err)
	assert.Empty(t, refs)

	refs, err = client.SetCartItem(ctx, sess.Token, "p2", 1)
	require.NoError(t, err)
	refs, err = client.SetCartItem(ctx, sess.Token, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, []models.CartReference{{ProductID: "p2", Qty: 1}, {ProductID: "p1", Qty: 3}}, refs)

	_, err = client.SetCartItem(ctx, sess.Token, "missing", 1)
	assert.True(t, api.Rejected(err, api.ReasonServer))
	assert.Equal(t, "Product doesn't exist", api.UserMessage(err, ""))

	refs, err = client.SetCartItem(ctx, sess.Token, "p2", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.CartReference{{ProductID: "p1", Qty: 3}}, refs)
}

func TestRouter_CartRequiresToken(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.Cart(context.Background(), "forged")
	var authErr *api.AuthRequiredError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Protected route, Oauth2 Bearer token not found", authErr.Message)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Post(srv.URL+"/api/v1/auth/login", "text/plain", strings.NewReader("crio"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}
