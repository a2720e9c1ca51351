// Command seed-db loads the menu catalog into PostgreSQL from a JSON file,
// optionally gzip-compressed. Existing items are upserted by ID so the
// command is safe to rerun.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rincon-pacifico/orders-api/internal/storage/postgres"
)

const upsertMenuItemSQL = `INSERT INTO menu_items (id, name, description, price, category, available, featured, allergens, nutrition)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		available = EXCLUDED.available,
		featured = EXCLUDED.featured,
		allergens = EXCLUDED.allergens,
		nutrition = EXCLUDED.nutrition`

// seedWorkers bounds concurrent upserts against the pool.
const seedWorkers = 4

type menuItemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	Featured    bool            `json:"featured"`
	Allergens   []string        `json:"allergens"`
	Nutrition   json.RawMessage `json:"nutrition"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu-items.json", "path to menu items JSON file (.json or .json.gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	items, err := readMenuFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	return seedMenuItems(ctx, pool, items)
}

// readMenuFile parses the items JSON, transparently decompressing .gz files.
func readMenuFile(path string) ([]menuItemJSON, error) {
	slog.Info("reading menu file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var items []menuItemJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "parse menu JSON")
	}
	return items, nil
}

// seedMenuItems upserts all items concurrently, bounded by seedWorkers.
func seedMenuItems(ctx context.Context, pool *pgxpool.Pool, items []menuItemJSON) error {
	slog.Info("upserting menu items", slog.Int("count", len(items)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(seedWorkers)

	for _, item := range items {
		g.Go(func() error {
			var nutrition any
			if len(item.Nutrition) > 0 {
				nutrition = []byte(item.Nutrition)
			}
			_, err := pool.Exec(ctx, upsertMenuItemSQL,
				item.ID, item.Name, item.Description, item.Price, item.Category,
				item.Available, item.Featured, item.Allergens, nutrition,
			)
			if err != nil {
				return errors.Wrapf(err, "upsert menu item %s", item.ID)
			}

			slog.Info("upserted menu item", slog.String("id", item.ID), slog.String("name", item.Name))
			return nil
		})
	}

	return g.Wait()
}
