package order

import (
	"context"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service encapsulates order submission and history lookup.
type Service struct {
	orders Repository
}

// NewService creates a Service over the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// Submit validates the submission, computes the total from the line price
// snapshots, and persists the order atomically.
//
// Validation failures (ErrEmptyCart, ErrInvalidCustomerInfo) happen before
// any I/O. Persistence failures come back as *PersistError and are
// retryable by the caller; no retry happens here. On success the returned
// order carries its store-assigned ID and timestamp, and the caller is
// responsible for clearing the cart.
func (s *Service) Submit(ctx context.Context, lines []Line, customer CustomerInfo) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !customer.valid() {
		return nil, ErrInvalidCustomerInfo
	}

	total := decimal.Zero
	items := make([]Item, len(lines))
	for i, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items[i] = Item{
			MenuItemID: line.ItemID,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Notes:      line.Notes,
		}
	}

	o := &Order{
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		TotalAmount:     total.Round(2),
		Status:          StatusPending,
		Items:           items,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	zctx.From(ctx).Info("Order submitted",
		zap.Int64("order_id", o.ID),
		zap.Int("lines", len(o.Items)),
		zap.String("total", o.TotalAmount.String()))
	return o, nil
}

// History returns the customer's past orders, newest first, with line items
// carrying menu item names. An empty phone returns nothing without touching
// the store, and lookup failures degrade to an empty result: history is a
// fail-soft read path.
func (s *Service) History(ctx context.Context, phone string) []Order {
	if strings.TrimSpace(phone) == "" {
		return nil
	}

	orders, err := s.orders.ListByPhone(ctx, phone)
	if err != nil {
		zctx.From(ctx).Warn("Order history lookup failed",
			zap.String("phone", phone), zap.Error(err))
		return nil
	}
	return orders
}

func (c CustomerInfo) valid() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Address) != ""
}
