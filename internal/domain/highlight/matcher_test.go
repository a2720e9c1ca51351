package highlight

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rincon-pacifico/orders-api/internal/bus"
	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

// fixedCatalog returns items in a pinned order: tie-breaks depend on it.
type fixedCatalog struct {
	items []menu.Item
}

func (c *fixedCatalog) List(_ context.Context) []menu.Item {
	return c.items
}

func item(id, name, category string) menu.Item {
	return menu.Item{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromInt(10),
		Category:  category,
		Available: true,
	}
}

func TestMatch(t *testing.T) {
	catalog := &fixedCatalog{items: []menu.Item{
		item("taco-pastor", "Taco al Pastor", "tacos"),
		item("taco-suadero", "Taco de Suadero", "tacos"),
		item("guacamole", "Guacamole", "extras"),
		item("patacones", "Patacones", "extras"),
		item("agua-coco", "Agua de Coco", "bebidas"),
	}}
	m := NewMatcher(catalog)

	tests := []struct {
		name      string
		productID string
		wantID    string
		wantMatch bool
	}{
		{"exact id", "taco-pastor", "taco-pastor", true},
		{"normalized exact id", "TacoPastor", "taco-pastor", true},
		{"exact id with spaces", "taco pastor", "taco-pastor", true},
		{"id substring", "pastor", "taco-pastor", true},
		{"signal contains id", "el-taco-pastor-grande", "taco-pastor", true},
		{"name substring", "suadero", "taco-suadero", true},
		{"full name", "Agua de Coco", "agua-coco", true},
		{"category fallback", "extras", "guacamole", true},
		{"category contained in signal", "menu-bebidas", "agua-coco", true},
		{"no match", "hamburguesa", "", false},
		{"empty signal", "", "", false},
		{"whitespace-only signal", "  \t ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Match(context.Background(), tt.productID)
			require.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestMatch_ExactIDBeatsSubstring(t *testing.T) {
	// "taco" is a substring of the first item's ID, but the second item's ID
	// is an exact normalized match. Exact equality is a higher tier.
	catalog := &fixedCatalog{items: []menu.Item{
		item("taco-pastor", "Taco al Pastor", "tacos"),
		item("taco", "Taco Sencillo", "tacos"),
	}}
	m := NewMatcher(catalog)

	got, ok := m.Match(context.Background(), "taco")
	require.True(t, ok)
	assert.Equal(t, "taco", got.ID)
}

func TestMatch_CategoryTieBreaksByCatalogOrder(t *testing.T) {
	// Multiple items share the "extras" category: the first in catalog
	// iteration order must win, deterministically.
	catalog := &fixedCatalog{items: []menu.Item{
		item("arroz-coco", "Arroz con Coco", "extras"),
		item("patacones", "Patacones", "extras"),
		item("aborrajados", "Aborrajados", "extras"),
	}}
	m := NewMatcher(catalog)

	for range 10 {
		got, ok := m.Match(context.Background(), "extras")
		require.True(t, ok)
		assert.Equal(t, "arroz-coco", got.ID)
	}
}

func TestSignal_PublishesResolutionAndCategory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := &fixedCatalog{items: []menu.Item{
		item("guacamole", "Guacamole", "extras"),
	}}
	resolved := bus.New[Resolved]()
	categories := bus.New[CategoryActivated]()
	svc := NewService(NewMatcher(catalog), resolved, categories, 0)

	resCh := resolved.Subscribe(ctx)
	catCh := categories.Subscribe(ctx)

	res, ok := svc.Signal(ctx, "Guacamole")
	require.True(t, ok)
	assert.Equal(t, Resolved{ItemID: "guacamole", Category: "extras"}, res)

	assert.Equal(t, res, <-resCh)
	assert.Equal(t, CategoryActivated{Category: "extras"}, <-catCh)
}

func TestSignal_NoMatchIsSilentlyDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolved := bus.New[Resolved]()
	categories := bus.New[CategoryActivated]()
	svc := NewService(NewMatcher(&fixedCatalog{}), resolved, categories, 0)

	resCh := resolved.Subscribe(ctx)

	_, ok := svc.Signal(ctx, "nothing-here")
	assert.False(t, ok)

	select {
	case v := <-resCh:
		t.Fatalf("unexpected resolution %+v", v)
	default:
	}
	_, ok = svc.Current()
	assert.False(t, ok)
}

func TestCurrent_ClearsAfterWindow(t *testing.T) {
	catalog := &fixedCatalog{items: []menu.Item{
		item("guacamole", "Guacamole", "extras"),
	}}
	svc := NewService(NewMatcher(catalog), bus.New[Resolved](), bus.New[CategoryActivated](), 0)

	now := time.Now()
	svc.now = func() time.Time { return now }

	_, ok := svc.Signal(context.Background(), "guacamole")
	require.True(t, ok)

	id, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "guacamole", id)

	// Still highlighted just inside the window.
	now = now.Add(Window - time.Millisecond)
	_, ok = svc.Current()
	assert.True(t, ok)

	// Cleared once the window elapses.
	now = now.Add(2 * time.Millisecond)
	_, ok = svc.Current()
	assert.False(t, ok)
}
