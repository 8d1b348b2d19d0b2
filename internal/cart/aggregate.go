// Package cart turns server-held cart references and a product catalog into
// displayable line items and totals.
package cart

import "github.com/atinyakov/QKart/internal/models"

// Join enriches each reference with its catalog entry. The result follows the
// order of refs. References whose product is absent from the catalog are
// dropped without error, so the result may be shorter than refs.
func Join(refs []models.CartReference, catalog []models.Product) []models.CartLineItem {
	items := make([]models.CartLineItem, 0, len(refs))
	if len(refs) == 0 || len(catalog) == 0 {
		return items
	}

	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		if _, seen := byID[p.ID]; !seen {
			byID[p.ID] = p
		}
	}

	for _, ref := range refs {
		p, ok := byID[ref.ProductID]
		if !ok {
			continue
		}
		items = append(items, models.CartLineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Cost:      p.Cost,
			Rating:    p.Rating,
			ImageURL:  p.ImageURL,
			Qty:       ref.Qty,
		})
	}
	return items
}

// Subtotal returns the sum of cost*qty over items.
func Subtotal(items []models.CartLineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Cost * float64(it.Qty)
	}
	return total
}

// ItemCount returns the number of units across items.
func ItemCount(items []models.CartLineItem) int {
	var n int
	for _, it := range items {
		n += it.Qty
	}
	return n
}

// Contains reports whether refs holds a reference to productID.
func Contains(refs []models.CartReference, productID string) bool {
	_, ok := Find(refs, productID)
	return ok
}

// Find returns the reference for productID, if any.
func Find(refs []models.CartReference, productID string) (models.CartReference, bool) {
	for _, ref := range refs {
		if ref.ProductID == productID {
			return ref, true
		}
	}
	return models.CartReference{}, false
}

// Summarize builds the checkout totals for items. Shipping is free.
func Summarize(items []models.CartLineItem) models.OrderSummary {
	subtotal := Subtotal(items)
	return models.OrderSummary{
		Products: ItemCount(items),
		Subtotal: subtotal,
		Shipping: 0,
		Total:    subtotal,
	}
}
