package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/models"
	"github.com/atinyakov/QKart/internal/service"
)

type mockCartAPI struct {
	CartFunc        func(ctx context.Context, token string) ([]models.CartReference, error)
	SetCartItemFunc func(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error)

	calls int
}

func (m *mockCartAPI) Cart(ctx context.Context, token string) ([]models.CartReference, error) {
	m.calls++
	return m.CartFunc(ctx, token)
}

func (m *mockCartAPI) SetCartItem(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error) {
	m.calls++
	return m.SetCartItemFunc(ctx, token, productID, qty)
}

var loggedIn = models.Session{Token: "tok", Username: "crio"}

func TestCartFetch_NoCredential(t *testing.T) {
	m := &mockCartAPI{}
	svc := service.NewCartService(m)

	_, err := svc.Fetch(context.Background(), models.Session{})
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Fatalf("Fetch error = %v; want ErrAuthRequired", err)
	}
	if m.calls != 0 {
		t.Errorf("expected no remote call, got %d", m.calls)
	}
}

func TestCartFetch_PassesToken(t *testing.T) {
	want := []models.CartReference{{ProductID: "p1", Qty: 2}}
	m := &mockCartAPI{
		CartFunc: func(_ context.Context, token string) ([]models.CartReference, error) {
			assert.Equal(t, "tok", token)
			return want, nil
		},
	}
	got, err := service.NewCartService(m).Fetch(context.Background(), loggedIn)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
	}
}

func TestCartFetch_Error(t *testing.T) {
	wantErr := &api.FetchFailedError{Op: "GET /cart", Status: 500, Message: api.MsgCartFetch}
	m := &mockCartAPI{
		CartFunc: func(context.Context, string) ([]models.CartReference, error) {
			return nil, wantErr
		},
	}
	_, err := service.NewCartService(m).Fetch(context.Background(), loggedIn)
	var fe *api.FetchFailedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 500, fe.Status)
}

func TestCartAdd_NoCredential(t *testing.T) {
	m := &mockCartAPI{}
	_, err := service.NewCartService(m).Add(context.Background(), models.Session{}, nil, "p1", 1)
	require.ErrorIs(t, err, api.ErrAuthRequired)
	assert.Zero(t, m.calls)
}

func TestCartAdd_DuplicateRejectedLocally(t *testing.T) {
	m := &mockCartAPI{}
	known := []models.CartReference{{ProductID: "p1", Qty: 1}}

	_, err := service.NewCartService(m).Add(context.Background(), loggedIn, known, "p1", 1)
	if !api.Rejected(err, api.ReasonDuplicate) {
		t.Fatalf("Add error = %v; want duplicate rejection", err)
	}
	assert.Equal(t, api.MsgDuplicate, api.UserMessage(err, ""))
	assert.Zero(t, m.calls)
}

func TestCartAdd_ZeroQtyReferenceIsNotDuplicate(t *testing.T) {
	known := []models.CartReference{{ProductID: "p1", Qty: 0}}
	m := &mockCartAPI{
		SetCartItemFunc: func(_ context.Context, _, productID string, qty int) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: productID, Qty: qty}}, nil
		},
	}
	got, err := service.NewCartService(m).Add(context.Background(), loggedIn, known, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, []models.CartReference{{ProductID: "p1", Qty: 1}}, got)
	assert.Equal(t, 1, m.calls)
}

func TestCartAdd_NewProduct(t *testing.T) {
	serverList := []models.CartReference{{ProductID: "p9", Qty: 3}, {ProductID: "p2", Qty: 1}}
	m := &mockCartAPI{
		SetCartItemFunc: func(_ context.Context, token, productID string, qty int) ([]models.CartReference, error) {
			assert.Equal(t, "tok", token)
			assert.Equal(t, "p2", productID)
			assert.Equal(t, 1, qty)
			return serverList, nil
		},
	}
	known := []models.CartReference{{ProductID: "p1", Qty: 1}}
	got, err := service.NewCartService(m).Add(context.Background(), loggedIn, known, "p2", 1)
	require.NoError(t, err)
	// The server's list is adopted as is.
	if diff := cmp.Diff(serverList, got); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}
}

func TestCartSetQuantity_SameProductCallsThrough(t *testing.T) {
	m := &mockCartAPI{
		SetCartItemFunc: func(_ context.Context, _, productID string, qty int) ([]models.CartReference, error) {
			return []models.CartReference{{ProductID: productID, Qty: qty}}, nil
		},
	}
	svc := service.NewCartService(m)

	got, err := svc.SetQuantity(context.Background(), loggedIn, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, []models.CartReference{{ProductID: "p1", Qty: 4}}, got)
	assert.Equal(t, 1, m.calls)
}

func TestCartSetQuantity_ZeroRemoves(t *testing.T) {
	m := &mockCartAPI{
		SetCartItemFunc: func(_ context.Context, _, _ string, qty int) ([]models.CartReference, error) {
			assert.Equal(t, 0, qty)
			return []models.CartReference{}, nil
		},
	}
	got, err := service.NewCartService(m).SetQuantity(context.Background(), loggedIn, "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCartSetQuantity_Negative(t *testing.T) {
	m := &mockCartAPI{}
	_, err := service.NewCartService(m).SetQuantity(context.Background(), loggedIn, "p1", -1)
	assert.True(t, api.Rejected(err, api.ReasonInvalidQuantity))
	assert.Zero(t, m.calls)
}

func TestCartSetQuantity_NoCredential(t *testing.T) {
	m := &mockCartAPI{}
	_, err := service.NewCartService(m).SetQuantity(context.Background(), models.Session{}, "p1", 2)
	require.ErrorIs(t, err, api.ErrAuthRequired)
	assert.Zero(t, m.calls)
}

func TestCartSetQuantity_ServerRejection(t *testing.T) {
	m := &mockCartAPI{
		SetCartItemFunc: func(context.Context, string, string, int) ([]models.CartReference, error) {
			return nil, &api.RejectedError{Reason: api.ReasonServer, Status: 400, Message: "Product doesn't exist"}
		},
	}
	_, err := service.NewCartService(m).SetQuantity(context.Background(), loggedIn, "nope", 1)
	assert.True(t, api.Rejected(err, api.ReasonServer))
	assert.Equal(t, "Product doesn't exist", api.UserMessage(err, api.MsgCartUpdate))
}
