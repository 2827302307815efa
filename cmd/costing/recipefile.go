package main

import (
	"fmt"
	"os"

	"costing"
	"costing/catalog"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// recipeFile is the YAML layout read by "cost" and "recipe import".
//
//	name: Scones
//	yield: {quantity: 10, unit: each}
//	selling_price: "0.30"
//	currency: GBP
//	ingredients:
//	  Flour: {pack_quantity: 1, pack_unit: kg, pack_price: "2.40"}
//	items:
//	  - {ingredient: Flour, quantity: 250, unit: g}
//	sections:
//	  - name: Glaze
//	    items: [...]
//
// currency is that of selling_price and the default for inline ingredients;
// empty means the configured base currency. The ingredients block is only
// used by "cost"; imported recipes resolve ingredient names against the
// catalog.
type recipeFile struct {
	Name         string                    `yaml:"name"`
	Yield        yieldSpec                 `yaml:"yield"`
	SellingPrice *string                   `yaml:"selling_price"`
	Currency     string                    `yaml:"currency"`
	Ingredients  map[string]ingredientSpec `yaml:"ingredients"`
	Items        []itemSpec                `yaml:"items"`
	Sections     []sectionSpec             `yaml:"sections"`
}

type yieldSpec struct {
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
}

type ingredientSpec struct {
	PackQuantity  float64  `yaml:"pack_quantity"`
	PackUnit      string   `yaml:"pack_unit"`
	PackPrice     string   `yaml:"pack_price"`
	Currency      string   `yaml:"currency"`
	DensityGPerMl *float64 `yaml:"density_g_per_ml"`
}

type itemSpec struct {
	Ingredient string  `yaml:"ingredient"`
	Quantity   float64 `yaml:"quantity"`
	Unit       string  `yaml:"unit"`
}

type sectionSpec struct {
	Name  string     `yaml:"name"`
	Items []itemSpec `yaml:"items"`
}

func readRecipeFile(path string) (*recipeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf recipeFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &rf, nil
}

func (rf *recipeFile) sellingPrice() (*float64, error) {
	if rf.SellingPrice == nil {
		return nil, nil
	}
	p, err := costing.ParseMoney(*rf.SellingPrice)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (spec ingredientSpec) ingredient(name, currency string) (costing.Ingredient, error) {
	if spec.Currency != "" {
		currency = spec.Currency
	}
	unit, err := costing.ParseUnit(spec.PackUnit)
	if err != nil {
		return costing.Ingredient{}, fmt.Errorf("ingredient %q: %w", name, err)
	}
	pack, err := costing.ToBase(spec.PackQuantity, unit)
	if err != nil {
		return costing.Ingredient{}, err
	}
	price, err := costing.ParseMoney(spec.PackPrice)
	if err != nil {
		return costing.Ingredient{}, fmt.Errorf("ingredient %q: %w", name, err)
	}
	return costing.Ingredient{
		Name:          name,
		PackQuantity:  pack.Amount,
		PackUnit:      pack.Unit,
		PackPrice:     price,
		Currency:      currency,
		DensityGPerMl: spec.DensityGPerMl,
	}, nil
}

// recipe resolves the file's inline ingredients into a costing.Recipe.
// Item units are kept as written so an unknown unit surfaces when costing.
func (rf *recipeFile) recipe() (costing.Recipe, error) {
	ings := make(map[string]costing.Ingredient, len(rf.Ingredients))
	for name, spec := range rf.Ingredients {
		ing, err := spec.ingredient(name, rf.Currency)
		if err != nil {
			return costing.Recipe{}, err
		}
		ings[name] = ing
	}
	resolve := func(specs []itemSpec) ([]costing.RecipeItem, error) {
		var items []costing.RecipeItem
		for _, s := range specs {
			ing, ok := ings[s.Ingredient]
			if !ok {
				return nil, fmt.Errorf("item uses undeclared ingredient %q", s.Ingredient)
			}
			unit, err := costing.ParseUnit(s.Unit)
			if err != nil {
				unit = costing.Unit(s.Unit)
			}
			items = append(items, costing.RecipeItem{Quantity: s.Quantity, Unit: unit, Ingredient: ing})
		}
		return items, nil
	}

	price, err := rf.sellingPrice()
	if err != nil {
		return costing.Recipe{}, err
	}
	yieldUnit, err := costing.ParseUnit(rf.Yield.Unit)
	if err != nil {
		return costing.Recipe{}, err
	}
	r := costing.Recipe{
		Name:          rf.Name,
		YieldQuantity: rf.Yield.Quantity,
		YieldUnit:     yieldUnit,
		SellingPrice:  price,
		Currency:      rf.Currency,
	}
	if r.Items, err = resolve(rf.Items); err != nil {
		return costing.Recipe{}, err
	}
	for _, s := range rf.Sections {
		items, err := resolve(s.Items)
		if err != nil {
			return costing.Recipe{}, fmt.Errorf("section %q: %w", s.Name, err)
		}
		r.Sections = append(r.Sections, costing.Section{Name: s.Name, Items: items})
	}
	return r, nil
}

// newRecipe turns the file into a catalog insert.
func (rf *recipeFile) newRecipe() (catalog.NewRecipe, error) {
	nr := catalog.NewRecipe{
		Name:          rf.Name,
		YieldQuantity: rf.Yield.Quantity,
		YieldUnit:     rf.Yield.Unit,
		Currency:      rf.Currency,
	}
	if rf.SellingPrice != nil {
		d, err := decimal.NewFromString(*rf.SellingPrice)
		if err != nil {
			return catalog.NewRecipe{}, fmt.Errorf("selling_price: %w", err)
		}
		nr.SellingPrice = decimal.NewNullDecimal(d)
	}
	for _, it := range rf.Items {
		nr.Items = append(nr.Items, catalog.NewRecipeItem{Ingredient: it.Ingredient, Quantity: it.Quantity, Unit: it.Unit})
	}
	for _, s := range rf.Sections {
		for _, it := range s.Items {
			nr.Items = append(nr.Items, catalog.NewRecipeItem{Section: s.Name, Ingredient: it.Ingredient, Quantity: it.Quantity, Unit: it.Unit})
		}
	}
	return nr, nil
}
