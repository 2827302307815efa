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

// NewRecipeItem references its ingredient by id or, failing that, by name.
type NewRecipeItem struct {
	Section      string
	IngredientID string
	Ingredient   string
	Quantity     float64
	Unit         string
}

type NewRecipe struct {
	Name          string
	YieldQuantity float64
	YieldUnit     string
	SellingPrice  decimal.NullDecimal
	Currency      string // of SellingPrice; empty means the base currency
	Items         []NewRecipeItem
}

// AddRecipe validates and stores a recipe, returning its id.
func (st *Store) AddRecipe(ctx context.Context, in NewRecipe) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if in.YieldQuantity <= 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecipe, costing.ErrInvalidYield)
	}
	yieldUnit, err := costing.ParseUnit(in.YieldUnit)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if !costing.IsBaseUnit(yieldUnit) {
		return "", fmt.Errorf("%w: yield unit %s is not one of g, ml, each, slices", ErrInvalidRecipe, yieldUnit)
	}
	if in.SellingPrice.Valid && in.SellingPrice.Decimal.IsNegative() {
		return "", fmt.Errorf("%w: selling price must not be negative", ErrInvalidRecipe)
	}

	type resolved struct {
		section string
		ingID   uuid.UUID
		qty     float64
		unit    costing.Unit
	}
	items := make([]resolved, 0, len(in.Items))
	for i, it := range in.Items {
		unit, err := costing.ParseUnit(it.Unit)
		if err != nil {
			return "", fmt.Errorf("%w: item %d: %v", ErrInvalidRecipe, i, err)
		}
		var ing Ingredient
		if it.IngredientID != "" {
			ing, err = st.GetIngredient(ctx, it.IngredientID)
		} else {
			ing, err = st.GetIngredientByName(ctx, it.Ingredient)
		}
		if err != nil {
			return "", fmt.Errorf("%w: item %d: %w", ErrInvalidRecipe, i, err)
		}
		items = append(items, resolved{
			section: strings.TrimSpace(it.Section),
			ingID:   uuid.MustParse(ing.ID),
			qty:     it.Quantity,
			unit:    unit,
		})
	}

	id, err := uuid.NewV6()
	if err != nil {
		return "", err
	}
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (uuid, name, yield_quantity, yield_unit, selling_price, currency) VALUES (?, ?, ?, ?, ?, ?)`,
		id[:], name, in.YieldQuantity, string(yieldUnit), in.SellingPrice, strings.ToUpper(strings.TrimSpace(in.Currency)))
	if err != nil {
		return "", fmt.Errorf("insert recipe %q: %w", name, err)
	}
	for i, it := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO recipe_items (recipe_uuid, position, section, ingredient_uuid, quantity, unit) VALUES (?, ?, ?, ?, ?, ?)`,
			id[:], i, it.section, it.ingID[:], it.qty, string(it.unit))
		if err != nil {
			return "", fmt.Errorf("insert item %d of %q: %w", i, name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	st.logger.Debug("recipe added", zap.String("id", id.String()), zap.String("name", name), zap.Int("items", len(items)))
	return id.String(), nil
}

// GetRecipe loads a recipe with its items and their ingredients. Items with
// an empty section go to Items, the rest are grouped into Sections in the
// order they first appear.
func (st *Store) GetRecipe(ctx context.Context, id string) (costing.Recipe, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return costing.Recipe{}, fmt.Errorf("recipe %q: %w", id, ErrNotFound)
	}
	row := st.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE uuid = ?`, uid[:])
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return costing.Recipe{}, fmt.Errorf("recipe %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return costing.Recipe{}, err
	}
	if err := st.loadItems(ctx, &r); err != nil {
		return costing.Recipe{}, err
	}
	return r, nil
}

// GetRecipeByName loads a recipe by its unique name.
func (st *Store) GetRecipeByName(ctx context.Context, name string) (costing.Recipe, error) {
	var rawID []byte
	err := st.db.QueryRowContext(ctx, `SELECT uuid FROM recipes WHERE name = ?`, strings.TrimSpace(name)).Scan(&rawID)
	if errors.Is(err, sql.ErrNoRows) {
		return costing.Recipe{}, fmt.Errorf("recipe %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return costing.Recipe{}, err
	}
	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return costing.Recipe{}, err
	}
	return st.GetRecipe(ctx, id.String())
}

// ListRecipes loads every recipe ordered by name.
func (st *Store) ListRecipes(ctx context.Context) ([]costing.Recipe, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var recipes []costing.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recipes = append(recipes, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range recipes {
		if err := st.loadItems(ctx, &recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

const recipeColumns = `uuid, name, yield_quantity, yield_unit, selling_price, currency`

func scanRecipe(row rowScanner) (costing.Recipe, error) {
	var (
		rawID []byte
		r     costing.Recipe
		unit  string
		price decimal.NullDecimal
	)
	if err := row.Scan(&rawID, &r.Name, &r.YieldQuantity, &unit, &price, &r.Currency); err != nil {
		return costing.Recipe{}, err
	}
	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return costing.Recipe{}, err
	}
	r.ID = id.String()
	r.YieldUnit = costing.Unit(unit)
	if price.Valid {
		p, _ := price.Decimal.Float64()
		r.SellingPrice = &p
	}
	return r, nil
}

func (st *Store) loadItems(ctx context.Context, r *costing.Recipe) error {
	uid, err := uuid.Parse(r.ID)
	if err != nil {
		return err
	}
	rows, err := st.db.QueryContext(ctx,
		`SELECT section, ingredient_uuid, quantity, unit FROM recipe_items WHERE recipe_uuid = ? ORDER BY position`, uid[:])
	if err != nil {
		return err
	}
	type itemRow struct {
		section string
		ingID   uuid.UUID
		qty     float64
		unit    string
	}
	var itemRows []itemRow
	for rows.Next() {
		var (
			ir    itemRow
			rawID []byte
		)
		if err := rows.Scan(&ir.section, &rawID, &ir.qty, &ir.unit); err != nil {
			rows.Close()
			return err
		}
		if ir.ingID, err = uuid.FromBytes(rawID); err != nil {
			rows.Close()
			return err
		}
		itemRows = append(itemRows, ir)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	cache := map[uuid.UUID]costing.Ingredient{}
	sectionIdx := map[string]int{}
	for _, ir := range itemRows {
		ing, ok := cache[ir.ingID]
		if !ok {
			stored, err := st.GetIngredient(ctx, ir.ingID.String())
			if err != nil {
				return fmt.Errorf("recipe %q: %w", r.Name, err)
			}
			ing = stored.Ingredient
			cache[ir.ingID] = ing
		}
		item := costing.RecipeItem{Quantity: ir.qty, Unit: costing.Unit(ir.unit), Ingredient: ing}
		if ir.section == "" {
			r.Items = append(r.Items, item)
			continue
		}
		idx, ok := sectionIdx[ir.section]
		if !ok {
			idx = len(r.Sections)
			sectionIdx[ir.section] = idx
			r.Sections = append(r.Sections, costing.Section{Name: ir.section})
		}
		r.Sections[idx].Items = append(r.Sections[idx].Items, item)
	}
	return nil
}
