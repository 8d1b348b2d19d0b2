package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/QKart/internal/models"
)

// CartRequest is the body of POST /cart.
type CartRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Cart reads the cart references of the user owning token. Without a token
// it returns ErrAuthRequired and makes no request.
func (c *Client) Cart(ctx context.Context, token string) ([]models.CartReference, error) {
	const op = "GET /cart"

	if token == "" {
		return nil, ErrAuthRequired
	}

	resp, err := c.send(ctx, http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, &FetchFailedError{Op: op, Message: MsgCartFetch, Err: err}
	}
	switch resp.status {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, &AuthRequiredError{Message: serverMessage(resp.body, MsgLoginRequired)}
	case http.StatusBadRequest:
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: serverMessage(resp.body, MsgCartFetch)}
	default:
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: MsgCartFetch}
	}

	return decodeReferences(op, resp)
}

// SetCartItem replaces the quantity of productID in the user's cart and
// returns the cart as the server now holds it. A quantity of zero removes
// the product.
func (c *Client) SetCartItem(ctx context.Context, token, productID string, qty int) ([]models.CartReference, error) {
	const op = "POST /cart"

	if token == "" {
		return nil, ErrAuthRequired
	}

	resp, err := c.send(ctx, http.MethodPost, "/cart", token, CartRequest{ProductID: productID, Qty: qty})
	if err != nil {
		return nil, &FetchFailedError{Op: op, Message: MsgCartUpdate, Err: err}
	}
	switch {
	case resp.status == http.StatusOK:
	case resp.status == http.StatusUnauthorized:
		return nil, &AuthRequiredError{Message: serverMessage(resp.body, MsgLoginRequired)}
	case isClientError(resp.status):
		return nil, &RejectedError{Reason: ReasonServer, Status: resp.status, Message: serverMessage(resp.body, MsgCartUpdate)}
	default:
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: MsgCartUpdate}
	}

	return decodeReferences(op, resp)
}

func decodeReferences(op string, resp *response) ([]models.CartReference, error) {
	var refs []models.CartReference
	if err := json.Unmarshal(resp.body, &refs); err != nil {
		return nil, &FetchFailedError{Op: op, Status: resp.status, Message: MsgCartFetch, Err: err}
	}
	if refs == nil {
		refs = []models.CartReference{}
	}
	return refs, nil
}
