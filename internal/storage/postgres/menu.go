package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rincon-pacifico/orders-api/internal/domain/menu"
)

const (
	// Ordering by (category, id) is part of the repository contract:
	// highlight tie-breaks depend on a stable catalog iteration order.
	listMenuSQL = `SELECT id, name, description, price, category, available, featured, allergens, nutrition
		FROM menu_items ORDER BY category, id`

	getMenuItemSQL = `SELECT id, name, description, price, category, available, featured, allergens, nutrition
		FROM menu_items WHERE id = $1`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns every catalog item ordered by (category, id).
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single catalog item by its identifier.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get menu item %q", id)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get menu item %q", id)
	}
	return &item, nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var (
		item      menu.Item
		nutrition []byte
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Available, &item.Featured, &item.Allergens, &nutrition,
	)
	if err != nil {
		return menu.Item{}, err
	}

	if len(nutrition) > 0 {
		var n menu.Nutrition
		if err := json.Unmarshal(nutrition, &n); err != nil {
			return menu.Item{}, errors.Wrapf(err, "decode nutrition for %q", item.ID)
		}
		item.Nutrition = &n
	}
	return item, nil
}
