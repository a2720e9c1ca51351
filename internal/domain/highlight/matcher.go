// Package highlight resolves loosely-formatted external product references
// (from a voice/chat agent) to catalog items and drives the time-bounded
// item highlight state.
package highlight

import (
	"context"
	"strings"
	"unicode"

	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

// Catalog supplies the items the matcher resolves against. List order is the
// tie-break order: within a priority tier, the first item in catalog order
// wins.
type Catalog interface {
	List(ctx context.Context) []menu.Item
}

// Matcher resolves a free-form product reference to at most one catalog item.
//
// The priority order below is the contract; it is deliberately not "improved"
// because resolution changes are user-visible:
//  1. exact normalized-ID equality
//  2. substring containment, either direction, against the item ID
//  3. substring containment, either direction, against the item name
//  4. category fallback: equality or containment, either direction, against
//     the item category
type Matcher struct {
	catalog Catalog
}

// NewMatcher creates a Matcher over the given catalog.
func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match resolves productID to a catalog item. The boolean reports whether a
// match was found; an unmatched reference is not an error.
func (m *Matcher) Match(ctx context.Context, productID string) (*menu.Item, bool) {
	ref := normalize(productID)
	if ref == "" {
		return nil, false
	}

	items := m.catalog.List(ctx)

	tiers := []func(menu.Item) bool{
		func(it menu.Item) bool { return normalize(it.ID) == ref },
		func(it menu.Item) bool { return contains(normalize(it.ID), ref) },
		func(it menu.Item) bool { return contains(normalize(it.Name), ref) },
		func(it menu.Item) bool { return contains(normalize(it.Category), ref) },
	}

	for _, matches := range tiers {
		for i := range items {
			if matches(items[i]) {
				return &items[i], true
			}
		}
	}
	return nil, false
}

// contains reports substring containment in either direction. Equal strings
// trivially contain each other.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// normalize lower-cases the reference and strips whitespace and hyphens, so
// "TacoPastor", "taco pastor" and "taco-pastor" all compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
