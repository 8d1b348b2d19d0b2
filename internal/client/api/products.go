package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/atinyakov/QKart/internal/models"
)

// Products fetches the full catalog snapshot.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	const op = "GET /products"

	resp, err := c.send(ctx, http.MethodGet, "/products", "", nil)
	if err != nil {
		return nil, &FetchFailedError{Op: op, Message: MsgBackendDown, Err: err}
	}
	if resp.status != http.StatusOK {
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: serverMessage(resp.body, MsgBackendDown)}
	}

	var products []models.Product
	if err := json.Unmarshal(resp.body, &products); err != nil {
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: MsgBackendDown, Err: err}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Search fetches the products matching query.
//
// An empty result yields ErrNotFound; a 4xx yields a *FetchFailedError that
// also matches ErrNotFound. Server errors and transport failures do not.
func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	const op = "GET /products/search"

	path := "/products/search?" + url.Values{"value": {query}}.Encode()
	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, &FetchFailedError{Op: op, Message: MsgBackendDown, Err: err}
	}
	switch {
	case resp.status == http.StatusOK:
	case isClientError(resp.status):
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: serverMessage(resp.body, MsgNotFound), Err: ErrNotFound}
	default:
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: serverMessage(resp.body, MsgBackendDown)}
	}

	var products []models.Product
	if err := json.Unmarshal(resp.body, &products); err != nil {
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: MsgBackendDown, Err: err}
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return products, nil
}
