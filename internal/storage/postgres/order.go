package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rincon-pacifico/orders-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (customer_name, customer_phone, customer_address, total_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, menu_item_id, quantity, price, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	listOrdersByPhoneSQL = `SELECT id, customer_name, customer_phone, customer_address, total_amount, status, created_at
		FROM orders WHERE customer_phone = $1
		ORDER BY created_at DESC, id DESC`

	listOrderItemsSQL = `SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price, oi.notes
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and all of its items in one transaction.
// The header is inserted first to obtain the generated id; any later failure
// rolls the whole transaction back, so an order row can never outlive a
// failed items insert. Failures carry the phase via *order.PersistError.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &order.PersistError{Phase: order.PhaseOrder, Err: errors.Wrap(err, "begin")}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.CustomerName, o.CustomerPhone, o.CustomerAddress, o.TotalAmount, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return &order.PersistError{Phase: order.PhaseOrder, Err: err}
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		err = tx.QueryRow(ctx, insertOrderItemSQL,
			o.ID, o.Items[i].MenuItemID, o.Items[i].Quantity, o.Items[i].Price, o.Items[i].Notes,
		).Scan(&o.Items[i].ID)
		if err != nil {
			return &order.PersistError{Phase: order.PhaseItems, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &order.PersistError{Phase: order.PhaseItems, Err: errors.Wrap(err, "commit")}
	}
	return nil
}

// ListByPhone returns the customer's orders newest first, each with its
// items joined against the catalog for display names.
func (r *OrderRepository) ListByPhone(ctx context.Context, phone string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByPhoneSQL, phone)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders for %q", phone)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var o order.Order
		err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
			&o.TotalAmount, &o.Status, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan orders for %q", phone)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	itemRows, err := r.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}

	items, err := pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (order.Item, error) {
		var it order.Item
		err := row.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.MenuItemName,
			&it.Quantity, &it.Price, &it.Notes)
		return it, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan order items")
	}

	for _, it := range items {
		parent := index[it.OrderID]
		parent.Items = append(parent.Items, it)
	}
	return orders, nil
}
