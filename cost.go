package costing

import (
	"fmt"
)

// PriceTier is an alternate, usually bulk, way of buying an ingredient.
// PurchaseUnit and UnitSize are only set for bulk tiers ("case of 12 x 1kg").
type PriceTier struct {
	PackQuantity float64
	PackPrice    float64
	PurchaseUnit string
	UnitSize     float64
}

type Ingredient struct {
	ID            string
	Name          string
	PackQuantity  float64  // amount in PackUnit
	PackUnit      BaseUnit // g, ml, each or slices
	PackPrice     float64  // price of one pack in Currency
	Currency      string
	DensityGPerMl *float64 // only needed to bridge mass and volume
	BatchPricing  []PriceTier
}

// UnitPrice is the price of one PackUnit.
func (ing Ingredient) UnitPrice() (float64, error) {
	if ing.PackQuantity == 0 {
		return 0, fmt.Errorf("%w: ingredient %q", ErrDivisionByZero, ing.Name)
	}
	return ing.PackPrice / ing.PackQuantity, nil
}

// WithTier returns a copy of ing priced by its i-th batch tier. Which tier
// applies to a purchase is decided by the caller; costing never looks at tiers.
func (ing Ingredient) WithTier(i int) (Ingredient, error) {
	if i < 0 || i >= len(ing.BatchPricing) {
		return Ingredient{}, fmt.Errorf("%w: %d of %d for %q", ErrNoSuchTier, i, len(ing.BatchPricing), ing.Name)
	}
	tier := ing.BatchPricing[i]
	priced := ing
	priced.PackQuantity = tier.PackQuantity
	if tier.UnitSize > 0 {
		priced.PackQuantity = tier.PackQuantity * tier.UnitSize
	}
	priced.PackPrice = tier.PackPrice
	return priced, nil
}

type UsageCostInput struct {
	UsageQuantity float64
	UsageUnit     Unit
	Ingredient    Ingredient
}

// IngredientUsageCost prices a usage of an ingredient against its pack. The
// usage sign is not validated; a negative usage produces a credit.
func IngredientUsageCost(in UsageCostInput) (float64, error) {
	usage, err := lookupUnit(in.UsageUnit)
	if err != nil {
		return 0, err
	}
	pack, err := lookupUnit(in.Ingredient.PackUnit)
	if err != nil {
		return 0, err
	}

	amount := in.UsageQuantity * usage.factor
	if usage.base != pack.base {
		if usage.kind == KindCount || pack.kind == KindCount {
			return 0, fmt.Errorf("%w: %s used against %s pack of %q",
				ErrIncompatibleUnitKind, in.UsageUnit, in.Ingredient.PackUnit, in.Ingredient.Name)
		}
		density := in.Ingredient.DensityGPerMl
		if density == nil {
			return 0, fmt.Errorf("%w: %q is used in %s but priced in %s",
				ErrMissingDensity, in.Ingredient.Name, in.UsageUnit, in.Ingredient.PackUnit)
		}
		if amount, err = bridge(amount, usage, pack, density); err != nil {
			return 0, err
		}
	}

	// The pack quantity is expressed in PackUnit, which may be a non-base
	// unit when callers skip normalization.
	packQty := in.Ingredient.PackQuantity * pack.factor
	if packQty == 0 {
		return 0, fmt.Errorf("%w: ingredient %q", ErrDivisionByZero, in.Ingredient.Name)
	}
	return amount * (in.Ingredient.PackPrice / packQty), nil
}

type RecipeItem struct {
	Quantity   float64
	Unit       Unit
	Ingredient Ingredient
}

// Cost prices this item on its own.
func (it RecipeItem) Cost() (float64, error) {
	return IngredientUsageCost(UsageCostInput{
		UsageQuantity: it.Quantity,
		UsageUnit:     it.Unit,
		Ingredient:    it.Ingredient,
	})
}

// Section groups items for display only.
type Section struct {
	Name  string
	Items []RecipeItem
}

type Recipe struct {
	ID            string
	Name          string
	YieldQuantity float64
	YieldUnit     BaseUnit
	SellingPrice  *float64 // per output unit, nil when not yet set
	Currency      string   // of SellingPrice; empty means the costing currency
	Items         []RecipeItem
	Sections      []Section
}

// AllItems returns the flat items followed by every section's items.
func (r Recipe) AllItems() []RecipeItem {
	n := len(r.Items)
	for _, s := range r.Sections {
		n += len(s.Items)
	}
	items := make([]RecipeItem, 0, n)
	items = append(items, r.Items...)
	for _, s := range r.Sections {
		items = append(items, s.Items...)
	}
	return items
}

// RecipeCost sums the usage cost of every item. One failing item fails the
// whole recipe.
func RecipeCost(items []RecipeItem) (float64, error) {
	total := 0.0
	for i, it := range items {
		c, err := it.Cost()
		if err != nil {
			return 0, fmt.Errorf("item %d (%s): %w", i, it.Ingredient.Name, err)
		}
		total += c
	}
	return total, nil
}

// CostPerOutputUnit divides a recipe's total cost across its yield.
func CostPerOutputUnit(totalCost, yieldQuantity float64) (float64, error) {
	if yieldQuantity <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidYield, yieldQuantity)
	}
	return totalCost / yieldQuantity, nil
}

// CogsPercentage returns cost as a percentage of selling price, or nil when
// no positive selling price is known.
func CogsPercentage(costPerOutputUnit float64, sellingPrice *float64) *float64 {
	if sellingPrice == nil || *sellingPrice <= 0 {
		return nil
	}
	pct := costPerOutputUnit / *sellingPrice * 100
	return &pct
}
