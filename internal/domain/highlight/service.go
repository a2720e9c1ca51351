package highlight

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/rincon-pacifico/orders-api/internal/bus"
)

// Window is how long a matched item stays highlighted before the state
// auto-clears.
const Window = 2500 * time.Millisecond

// Resolved is broadcast after a highlight signal matched a catalog item.
// Item views consume it to flicker the matched card.
type Resolved struct {
	ItemID   string `json:"itemId"`
	Category string `json:"category"`
}

// CategoryActivated is broadcast alongside Resolved so a dependent
// navigation/filter view can switch to the matched item's category.
type CategoryActivated struct {
	Category string `json:"category"`
}

// Service consumes inbound highlight signals, resolves them through the
// Matcher, publishes the resolution events, and tracks which item is
// currently highlighted.
type Service struct {
	matcher    *Matcher
	resolved   *bus.Bus[Resolved]
	categories *bus.Bus[CategoryActivated]
	window     time.Duration

	mu      sync.Mutex
	itemID  string
	expires time.Time

	now func() time.Time
}

// NewService wires a Service from its collaborators. A non-positive window
// falls back to Window.
func NewService(
	matcher *Matcher,
	resolved *bus.Bus[Resolved],
	categories *bus.Bus[CategoryActivated],
	window time.Duration,
) *Service {
	if window <= 0 {
		window = Window
	}
	return &Service{
		matcher:    matcher,
		resolved:   resolved,
		categories: categories,
		window:     window,
		now:        time.Now,
	}
}

// Signal processes one inbound highlight signal. On a match it arms the
// highlight window and broadcasts Resolved and CategoryActivated; an
// unmatched signal is dropped silently (logged at debug, never an error).
func (s *Service) Signal(ctx context.Context, productID string) (Resolved, bool) {
	item, ok := s.matcher.Match(ctx, productID)
	if !ok {
		zctx.From(ctx).Debug("Highlight signal dropped, no matching item",
			zap.String("product_id", productID))
		return Resolved{}, false
	}

	s.mu.Lock()
	s.itemID = item.ID
	s.expires = s.now().Add(s.window)
	s.mu.Unlock()

	res := Resolved{ItemID: item.ID, Category: item.Category}
	s.resolved.Publish(res)
	s.categories.Publish(CategoryActivated{Category: item.Category})

	zctx.From(ctx).Info("Highlight resolved",
		zap.String("product_id", productID),
		zap.String("item_id", item.ID),
		zap.String("category", item.Category))
	return res, true
}

// Current returns the item highlighted right now, if the window has not
// elapsed yet.
func (s *Service) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.itemID == "" || s.now().After(s.expires) {
		return "", false
	}
	return s.itemID, true
}
