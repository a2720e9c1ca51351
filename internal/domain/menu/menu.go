package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item is a purchasable catalog entry. Items are immutable once loaded;
// all mutation happens out of band through the seeding tooling.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Available   bool
	Featured    bool
	Allergens   []string
	Nutrition   *Nutrition
}

// Nutrition holds optional per-item nutritional values. Protein, Carbs and
// Fat are grams per serving.
type Nutrition struct {
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// Repository defines read operations for the menu catalog.
//
// List must return items in a stable order (category, then ID): downstream
// matching relies on deterministic catalog iteration order to break ties.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
}
