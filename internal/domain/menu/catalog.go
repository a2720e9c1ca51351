package menu

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCatalogTTL is how long a fetched catalog snapshot stays fresh.
const DefaultCatalogTTL = 30 * time.Second

// Catalog is a read-through cache over a menu Repository. Catalog reads are
// a fail-soft path: when the underlying fetch fails the previous snapshot
// (possibly empty) is served and the error is only logged, so browsing
// degrades to "nothing to show" instead of an error surface.
//
// Concurrent cache misses are collapsed into a single repository call via
// singleflight.
type Catalog struct {
	repo Repository
	ttl  time.Duration
	sf   singleflight.Group
	now  func() time.Time

	mu        sync.RWMutex
	items     []Item
	byID      map[string]*Item
	fetchedAt time.Time
}

// NewCatalog creates a Catalog over repo with the given snapshot TTL.
// A non-positive ttl falls back to DefaultCatalogTTL.
func NewCatalog(repo Repository, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &Catalog{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// List returns the current catalog snapshot in stable order, refreshing it
// from the repository when stale.
func (c *Catalog) List(ctx context.Context) []Item {
	c.mu.RLock()
	items, fetchedAt := c.items, c.fetchedAt
	c.mu.RUnlock()

	if !fetchedAt.IsZero() && c.now().Sub(fetchedAt) < c.ttl {
		return items
	}

	fresh, err, _ := c.sf.Do("list", func() (any, error) {
		fetched, err := c.repo.List(ctx)
		if err != nil {
			return nil, err
		}

		byID := make(map[string]*Item, len(fetched))
		for i := range fetched {
			byID[fetched[i].ID] = &fetched[i]
		}

		c.mu.Lock()
		c.items = fetched
		c.byID = byID
		c.fetchedAt = c.now()
		c.mu.Unlock()

		return fetched, nil
	})
	if err != nil {
		zctx.From(ctx).Warn("Catalog fetch failed, serving stale snapshot",
			zap.Error(err), zap.Int("stale_items", len(items)))
		return items
	}

	return fresh.([]Item)
}

// GetByID returns a single catalog item by ID, or ErrNotFound.
func (c *Catalog) GetByID(ctx context.Context, id string) (*Item, error) {
	c.List(ctx) // ensure the snapshot is reasonably fresh

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}
