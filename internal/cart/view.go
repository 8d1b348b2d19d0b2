package cart

import (
	"sync"

	"github.com/atinyakov/QKart/internal/models"
)

// View caches the line items derived from a reference list and a catalog.
//
// Callers bump a revision each time they replace either source wholesale and
// pass both revisions to Recompute; the join only runs when the pair changed.
type View struct {
	mu         sync.Mutex
	refsRev    uint64
	catalogRev uint64
	valid      bool
	items      []models.CartLineItem
	joins      int
}

// Recompute returns the line items for the given sources, reusing the last
// result when neither revision moved.
func (v *View) Recompute(refsRev, catalogRev uint64, refs []models.CartReference, catalog []models.Product) []models.CartLineItem {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && v.refsRev == refsRev && v.catalogRev == catalogRev {
		return v.items
	}

	v.items = Join(refs, catalog)
	v.refsRev = refsRev
	v.catalogRev = catalogRev
	v.valid = true
	v.joins++
	return v.items
}

// Items returns the last computed line items.
func (v *View) Items() []models.CartLineItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// Joins reports how many times the join actually ran.
func (v *View) Joins() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.joins
}

// Invalidate drops the cached result.
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.valid = false
	v.items = nil
}
