// Package cart implements the per-session shopping cart: line management,
// quantity invariants, and live price aggregation against the catalog.
package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

// Quantity bounds for a single cart line. Requested quantities outside this
// range are clamped, never rejected.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

var (
	// ErrItemUnavailable is returned when adding a catalog item that is
	// currently marked unavailable.
	ErrItemUnavailable = errors.New("item is not available")
	// ErrSubmissionInFlight is returned when a second submission is attempted
	// while one is already running for the same cart.
	ErrSubmissionInFlight = errors.New("order submission already in progress")
)

// Line is one entry in the in-progress order.
type Line struct {
	ID           string
	ItemID       string
	Quantity     int
	Instructions string
}

// Lookup is the catalog read access the cart needs.
type Lookup interface {
	GetByID(ctx context.Context, id string) (*menu.Item, error)
}

// Cart holds the lines of one checkout session. State is purely local until
// checkout: nothing is persisted before the order is submitted, so the
// visible lines and the computed total can never disagree with the store.
type Cart struct {
	catalog Lookup

	mu         sync.Mutex
	lines      []Line
	submitting bool

	newID func() string
}

// New creates an empty cart that prices against the given catalog.
func New(catalog Lookup) *Cart {
	return &Cart{
		catalog: catalog,
		newID:   func() string { return uuid.New().String() },
	}
}

// AddLine adds quantity of the given item to the cart, clamping quantity to
// [MinQuantity, MaxQuantity]. Adding an item that already has a line with the
// same instructions merges into that line (the merged quantity is clamped
// too). Unknown items fail with menu.ErrNotFound; unavailable items with
// ErrItemUnavailable.
func (c *Cart) AddLine(ctx context.Context, itemID string, quantity int, instructions string) (Line, error) {
	item, err := c.catalog.GetByID(ctx, itemID)
	if err != nil {
		return Line{}, err
	}
	if !item.Available {
		return Line{}, ErrItemUnavailable
	}

	quantity = clampQuantity(quantity)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID && c.lines[i].Instructions == instructions {
			c.lines[i].Quantity = clampQuantity(c.lines[i].Quantity + quantity)
			return c.lines[i], nil
		}
	}

	line := Line{
		ID:           c.newID(),
		ItemID:       itemID,
		Quantity:     quantity,
		Instructions: instructions,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// SetQuantity sets the quantity of the given line, clamped to
// [MinQuantity, MaxQuantity]. Out-of-range requests are a clamp, not an
// error. It reports whether the line exists.
func (c *Cart) SetQuantity(lineID string, quantity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = clampQuantity(quantity)
			return true
		}
	}
	return false
}

// RemoveLine deletes the given line and reports whether it existed.
func (c *Cart) RemoveLine(lineID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Lines returns a snapshot of the current cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart. Called after a successful submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total computes the cart total from live catalog prices. It is never cached:
// the invariant is that the total always matches the visible lines.
func (c *Cart) Total(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.Lines() {
		item, err := c.catalog.GetByID(ctx, line.ItemID)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "price line %s", line.ItemID)
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// BeginSubmit marks the cart as having a submission in flight. A cart with a
// running submission rejects further submissions until FinishSubmit is
// called; there is no cancellation of a started submission.
func (c *Cart) BeginSubmit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return ErrSubmissionInFlight
	}
	c.submitting = true
	return nil
}

// FinishSubmit clears the in-flight submission flag.
func (c *Cart) FinishSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
}

func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
