package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/QKart/internal/models"
)

// CatalogService defines the catalog reads required by the CatalogHandler.
type CatalogService interface {
	Products(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// CatalogHandler serves the product catalog.
type CatalogHandler struct {
	CatalogService CatalogService
}

// Products handles GET /products.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.CatalogService.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Search handles GET /products/search?value=<query>. A query matching
// nothing gets a 404 with an empty list.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("value"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "\"value\" is required")
		return
	}

	products, err := h.CatalogService.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(products) == 0 {
		writeJSON(w, http.StatusNotFound, []models.Product{})
		return
	}
	writeJSON(w, http.StatusOK, products)
}
