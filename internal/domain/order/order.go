package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order. This service only ever writes
// StatusPending; later transitions belong to an external fulfillment process.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Sentinel errors for submission validation. Both are rejected before any
// I/O happens.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidCustomerInfo = errors.New("customer name, phone and address are required")
)

// PersistPhase identifies which write of the order persistence failed.
type PersistPhase string

const (
	// PhaseOrder is the order header insert.
	PhaseOrder PersistPhase = "order"
	// PhaseItems is the order line-items insert.
	PhaseItems PersistPhase = "order_items"
)

// PersistError reports a failed order write. Regardless of phase, the
// repository contract guarantees no partial state survives the failure: an
// order row never exists without its item rows.
type PersistError struct {
	Phase PersistPhase
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Phase, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// CustomerInfo is the per-order customer record. Phone doubles as the
// customer lookup key for order history.
type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
}

// Line is one submission line: a menu item reference with its quantity,
// optional notes, and the unit price snapshotted at submission time. The
// snapshot, not the live catalog, is what gets persisted.
type Line struct {
	ItemID   string
	Quantity int
	Price    decimal.Decimal
	Notes    string
}

// Order is the persisted order header together with its line items.
type Order struct {
	ID              int64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	TotalAmount     decimal.Decimal
	Status          Status
	CreatedAt       time.Time
	Items           []Item
}

// Item is one persisted order line. An Item never exists without its parent
// Order row. MenuItemName is filled on the read path by joining the catalog.
type Item struct {
	ID           int64
	OrderID      int64
	MenuItemID   string
	MenuItemName string
	Quantity     int
	Price        decimal.Decimal
	Notes        string
}

// Repository defines persistence for orders.
//
// Create must be atomic: it persists the header and all items in one
// transaction, filling ID and CreatedAt on the passed order, and returns a
// *PersistError on failure with nothing written.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByPhone(ctx context.Context, phone string) ([]Order, error)
}
