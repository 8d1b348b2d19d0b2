// Package models defines the core data structures for products, carts and sessions.
package models

// Product is a catalog entry as served by the remote store. The client never mutates it.
type Product struct {
	// ID is the unique identifier for the product.
	ID string `json:"_id"`
	// Name is the display name.
	Name string `json:"name"`
	// Category groups products for search ("Fashion", "Electronics", ...).
	Category string `json:"category"`
	// Cost is the unit price.
	Cost float64 `json:"cost"`
	// Rating is an integer score in 0..5.
	Rating int `json:"rating"`
	// ImageURL points at the product picture.
	ImageURL string `json:"image"`
}

// CartReference is the server's record of a product and its desired quantity.
// A cart holds at most one reference per product.
type CartReference struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartLineItem is a cart reference enriched with catalog data, used for display.
type CartLineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Cost      float64 `json:"cost"`
	Rating    int     `json:"rating"`
	ImageURL  string  `json:"image"`
	Qty       int     `json:"qty"`
}

// OrderSummary is the read-only totals block shown at checkout.
type OrderSummary struct {
	// Products is the number of units in the cart.
	Products int `json:"products"`
	// Subtotal is the sum of cost*qty.
	Subtotal float64 `json:"subtotal"`
	// Shipping is always free.
	Shipping float64 `json:"shipping"`
	// Total is Subtotal plus Shipping.
	Total float64 `json:"total"`
}

// Session is the signed-in identity. A zero Session means nobody is logged in.
type Session struct {
	// Token is the bearer credential returned at login.
	Token string `json:"token,omitempty"`
	// Username is the display identity.
	Username string `json:"username,omitempty"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// User is a stub-backend account.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
}
