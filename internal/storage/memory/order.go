package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rincon-pacifico/orders-api/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository is an in-memory order store. Create is atomic by
// construction: the order and its items are recorded in one append under
// the lock, or not at all.
type OrderRepository struct {
	mu     sync.Mutex
	orders []order.Order
	nextID int64
	now    func() time.Time

	// FailItems, when set, simulates an item-insert failure after a
	// successful header insert. The transactional contract requires that
	// nothing is recorded in that case.
	FailItems error
}

// NewOrderRepository creates an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{now: time.Now}
}

// Create assigns an ID and timestamp and records the order with its items.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailItems != nil {
		return &order.PersistError{Phase: order.PhaseItems, Err: r.FailItems}
	}

	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = r.now()
	for i := range o.Items {
		o.Items[i].ID = int64(i + 1)
		o.Items[i].OrderID = o.ID
	}

	stored := *o
	stored.Items = make([]order.Item, len(o.Items))
	copy(stored.Items, o.Items)
	r.orders = append(r.orders, stored)
	return nil
}

// ListByPhone returns the customer's orders, newest first.
func (r *OrderRepository) ListByPhone(_ context.Context, phone string) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []order.Order
	for _, o := range r.orders {
		if o.CustomerPhone == phone {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Orders returns a snapshot of every stored order, for tests.
func (r *OrderRepository) Orders() []order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out
}
