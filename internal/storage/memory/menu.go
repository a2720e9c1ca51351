// Package memory provides in-memory repository implementations, used by
// tests and as the catalog source when running without a database.
package memory

import (
	"context"
	"sort"

	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository is an immutable in-memory menu catalog.
type MenuRepository struct {
	items []menu.Item
	byID  map[string]*menu.Item
}

// NewMenuRepository creates a repository over the given items, ordered by
// (category, ID) to match the relational catalog's stable iteration order.
func NewMenuRepository(items []menu.Item) *MenuRepository {
	sorted := make([]menu.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].ID < sorted[j].ID
	})

	byID := make(map[string]*menu.Item, len(sorted))
	for i := range sorted {
		byID[sorted[i].ID] = &sorted[i]
	}
	return &MenuRepository{items: sorted, byID: byID}
}

// List returns all items in stable (category, ID) order.
func (r *MenuRepository) List(_ context.Context) ([]menu.Item, error) {
	return r.items, nil
}

// GetByID returns a single item or menu.ErrNotFound.
func (r *MenuRepository) GetByID(_ context.Context, id string) (*menu.Item, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return item, nil
}
