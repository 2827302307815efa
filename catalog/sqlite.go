// Package catalog persists ingredients and recipes in SQLite and loads them
// back as costing inputs.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidIngredient = errors.New("invalid ingredient")
	ErrInvalidRecipe     = errors.New("invalid recipe")
)

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// New wraps an open database and makes sure the schema exists.
func New(db *sql.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := &Store{db: db, logger: logger}
	if err := st.InitSchema(context.Background()); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *Store) Close() error {
	return st.db.Close()
}

func (st *Store) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ingredients (
			uuid BLOB PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			pack_quantity REAL NOT NULL,
			pack_unit TEXT NOT NULL,
			purchase_unit TEXT NOT NULL,
			pack_price TEXT NOT NULL,
			currency TEXT NOT NULL DEFAULT '',
			density_g_per_ml REAL
		);`,
		`CREATE TABLE IF NOT EXISTS price_tiers (
			ingredient_uuid BLOB NOT NULL REFERENCES ingredients(uuid) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			pack_quantity REAL NOT NULL,
			pack_price TEXT NOT NULL,
			purchase_unit TEXT NOT NULL DEFAULT '',
			unit_size REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (ingredient_uuid, position)
		);`,
		`CREATE TABLE IF NOT EXISTS recipes (
			uuid BLOB PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			yield_quantity REAL NOT NULL,
			yield_unit TEXT NOT NULL,
			selling_price TEXT,
			currency TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS recipe_items (
			recipe_uuid BLOB NOT NULL REFERENCES recipes(uuid) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			section TEXT NOT NULL DEFAULT '',
			ingredient_uuid BLOB NOT NULL REFERENCES ingredients(uuid),
			quantity REAL NOT NULL,
			unit TEXT NOT NULL,
			PRIMARY KEY (recipe_uuid, position)
		);`,
	}
	for _, q := range queries {
		if _, err := st.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
