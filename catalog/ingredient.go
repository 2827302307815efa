package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"costing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ingredient is a stored ingredient. Its pack is normalized to a base unit;
// PurchaseUnit keeps the unit it was entered in so it can be edited again.
type Ingredient struct {
	costing.Ingredient
	PurchaseUnit costing.Unit
}

// PurchaseQuantity returns the pack size in the unit it was entered in.
func (ing Ingredient) PurchaseQuantity() (float64, error) {
	return costing.FromBase(ing.PackQuantity, ing.PackUnit, ing.PurchaseUnit, ing.DensityGPerMl)
}

// NewIngredient is what a user enters: a pack of Quantity Unit costing Price.
type NewIngredient struct {
	Name          string
	Quantity      float64
	Unit          string
	Price         decimal.Decimal
	Currency      string
	DensityGPerMl *float64
	Tiers         []costing.PriceTier
}

func (in NewIngredient) validate() (costing.Unit, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidIngredient)
	}
	unit, err := costing.ParseUnit(in.Unit)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIngredient, err)
	}
	if in.Quantity <= 0 {
		return "", fmt.Errorf("%w: pack quantity must be positive", ErrInvalidIngredient)
	}
	if in.Price.IsNegative() {
		return "", fmt.Errorf("%w: pack price must not be negative", ErrInvalidIngredient)
	}
	if in.DensityGPerMl != nil && *in.DensityGPerMl <= 0 {
		return "", fmt.Errorf("%w: density must be positive", ErrInvalidIngredient)
	}
	for i, t := range in.Tiers {
		if t.PackQuantity <= 0 || t.PackPrice < 0 {
			return "", fmt.Errorf("%w: tier %d needs a positive quantity and a non-negative price", ErrInvalidIngredient, i)
		}
	}
	return unit, nil
}

// AddIngredient validates and stores an ingredient.
func (st *Store) AddIngredient(ctx context.Context, in NewIngredient) (Ingredient, error) {
	unit, err := in.validate()
	if err != nil {
		return Ingredient{}, err
	}
	pack, err := costing.ToBase(in.Quantity, unit)
	if err != nil {
		return Ingredient{}, err
	}
	id, err := uuid.NewV6()
	if err != nil {
		return Ingredient{}, err
	}
	price, _ := in.Price.Float64()

	ing := Ingredient{
		Ingredient: costing.Ingredient{
			ID:            id.String(),
			Name:          strings.TrimSpace(in.Name),
			PackQuantity:  pack.Amount,
			PackUnit:      pack.Unit,
			PackPrice:     price,
			Currency:      strings.ToUpper(in.Currency),
			DensityGPerMl: in.DensityGPerMl,
			BatchPricing:  in.Tiers,
		},
		PurchaseUnit: unit,
	}

	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return Ingredient{}, err
	}
	defer tx.Rollback()

	var density sql.NullFloat64
	if in.DensityGPerMl != nil {
		density = sql.NullFloat64{Float64: *in.DensityGPerMl, Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingredients (uuid, name, pack_quantity, pack_unit, purchase_unit, pack_price, currency, density_g_per_ml) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id[:], ing.Name, ing.PackQuantity, string(ing.PackUnit), string(unit), in.Price, ing.Currency, density)
	if err != nil {
		return Ingredient{}, fmt.Errorf("insert ingredient %q: %w", ing.Name, err)
	}
	for i, t := range in.Tiers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO price_tiers (ingredient_uuid, position, pack_quantity, pack_price, purchase_unit, unit_size) VALUES (?, ?, ?, ?, ?, ?)`,
			id[:], i, t.PackQuantity, decimal.NewFromFloat(t.PackPrice), t.PurchaseUnit, t.UnitSize)
		if err != nil {
			return Ingredient{}, fmt.Errorf("insert tier %d of %q: %w", i, ing.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Ingredient{}, err
	}

	st.logger.Debug("ingredient added",
		zap.String("id", ing.ID),
		zap.String("name", ing.Name),
		zap.Float64("pack_quantity", ing.PackQuantity),
		zap.String("pack_unit", string(ing.PackUnit)))
	return ing, nil
}

const ingredientColumns = `uuid, name, pack_quantity, pack_unit, purchase_unit, pack_price, currency, density_g_per_ml`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (Ingredient, error) {
	var (
		rawID    []byte
		ing      Ingredient
		packUnit string
		purchase string
		price    decimal.Decimal
		density  sql.NullFloat64
	)
	if err := row.Scan(&rawID, &ing.Name, &ing.PackQuantity, &packUnit, &purchase, &price, &ing.Currency, &density); err != nil {
		return Ingredient{}, err
	}
	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return Ingredient{}, err
	}
	ing.ID = id.String()
	ing.PackUnit = costing.Unit(packUnit)
	ing.PurchaseUnit = costing.Unit(purchase)
	ing.PackPrice, _ = price.Float64()
	if density.Valid {
		d := density.Float64
		ing.DensityGPerMl = &d
	}
	return ing, nil
}

func (st *Store) loadTiers(ctx context.Context, ing *Ingredient) error {
	id, err := uuid.Parse(ing.ID)
	if err != nil {
		return err
	}
	rows, err := st.db.QueryContext(ctx,
		`SELECT pack_quantity, pack_price, purchase_unit, unit_size FROM price_tiers WHERE ingredient_uuid = ? ORDER BY position`, id[:])
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t     costing.PriceTier
			price decimal.Decimal
		)
		if err := rows.Scan(&t.PackQuantity, &price, &t.PurchaseUnit, &t.UnitSize); err != nil {
			return err
		}
		t.PackPrice, _ = price.Float64()
		ing.BatchPricing = append(ing.BatchPricing, t)
	}
	return rows.Err()
}

// GetIngredient loads an ingredient by id.
func (st *Store) GetIngredient(ctx context.Context, id string) (Ingredient, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", id, ErrNotFound)
	}
	row := st.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE uuid = ?`, uid[:])
	return st.finishIngredient(ctx, row, id)
}

// GetIngredientByName loads an ingredient by its unique name.
func (st *Store) GetIngredientByName(ctx context.Context, name string) (Ingredient, error) {
	row := st.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE name = ?`, strings.TrimSpace(name))
	return st.finishIngredient(ctx, row, name)
}

func (st *Store) finishIngredient(ctx context.Context, row *sql.Row, key string) (Ingredient, error) {
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return Ingredient{}, err
	}
	if err := st.loadTiers(ctx, &ing); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

// ListIngredients returns every ingredient ordered by name.
func (st *Store) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var ings []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ings = append(ings, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range ings {
		if err := st.loadTiers(ctx, &ings[i]); err != nil {
			return nil, err
		}
	}
	return ings, nil
}
