package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flour = Ingredient{
	Name:         "Flour",
	PackQuantity: 1000,
	PackUnit:     BaseGram,
	PackPrice:    2.40,
	Currency:     "GBP",
}

var milk = Ingredient{
	Name:          "Milk",
	PackQuantity:  1000,
	PackUnit:      BaseGram,
	PackPrice:     1.10,
	DensityGPerMl: ptr(1.03),
}

var eggs = Ingredient{
	Name:         "Eggs",
	PackQuantity: 12,
	PackUnit:     BaseEach,
	PackPrice:    3.00,
}

func usage(q float64, u Unit, ing Ingredient) UsageCostInput {
	return UsageCostInput{UsageQuantity: q, UsageUnit: u, Ingredient: ing}
}

func TestIngredientUsageCost(t *testing.T) {
	t.Run("same unit", func(t *testing.T) {
		c, err := IngredientUsageCost(usage(250, UnitG, flour))
		require.NoError(t, err)
		assert.InDelta(t, 0.60, c, 1e-12)
	})

	t.Run("same kind different unit", func(t *testing.T) {
		c, err := IngredientUsageCost(usage(0.5, UnitKg, flour))
		require.NoError(t, err)
		assert.InDelta(t, 1.20, c, 1e-12)
	})

	t.Run("count", func(t *testing.T) {
		c, err := IngredientUsageCost(usage(3, UnitEach, eggs))
		require.NoError(t, err)
		assert.InDelta(t, 0.75, c, 1e-12)
	})

	t.Run("density bridge volume usage against mass pack", func(t *testing.T) {
		usageMl := 300.0
		c, err := IngredientUsageCost(usage(usageMl, UnitMl, milk))
		require.NoError(t, err)
		assert.InDelta(t, (usageMl*1.03/1000)*1.10, c, 1e-12)
	})

	t.Run("density bridge mass usage against volume pack", func(t *testing.T) {
		oil := Ingredient{Name: "Oil", PackQuantity: 1000, PackUnit: BaseMl, PackPrice: 4.60, DensityGPerMl: ptr(0.92)}
		c, err := IngredientUsageCost(usage(92, UnitG, oil))
		require.NoError(t, err)
		assert.InDelta(t, 0.46, c, 1e-12)
	})

	t.Run("missing density", func(t *testing.T) {
		noDensity := milk
		noDensity.DensityGPerMl = nil
		_, err := IngredientUsageCost(usage(300, UnitMl, noDensity))
		assert.ErrorIs(t, err, ErrMissingDensity)
	})

	t.Run("non positive density", func(t *testing.T) {
		bad := milk
		bad.DensityGPerMl = ptr(0)
		_, err := IngredientUsageCost(usage(300, UnitMl, bad))
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
	})

	t.Run("count against mass even with density", func(t *testing.T) {
		_, err := IngredientUsageCost(usage(2, UnitEach, milk))
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
	})

	t.Run("each against slices", func(t *testing.T) {
		_, err := IngredientUsageCost(usage(2, UnitSlices, eggs))
		assert.ErrorIs(t, err, ErrIncompatibleUnitKind)
	})

	t.Run("zero pack quantity", func(t *testing.T) {
		empty := flour
		empty.PackQuantity = 0
		_, err := IngredientUsageCost(usage(10, UnitG, empty))
		assert.ErrorIs(t, err, ErrDivisionByZero)
	})

	t.Run("unknown usage unit", func(t *testing.T) {
		_, err := IngredientUsageCost(usage(10, Unit("pinch"), flour))
		assert.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("negative usage is a credit", func(t *testing.T) {
		c, err := IngredientUsageCost(usage(-250, UnitG, flour))
		require.NoError(t, err)
		assert.InDelta(t, -0.60, c, 1e-12)
	})
}

func TestIngredientUsageCost_ZeroUsage(t *testing.T) {
	for _, ing := range []Ingredient{flour, milk, eggs} {
		c, err := IngredientUsageCost(usage(0, ing.PackUnit, ing))
		require.NoError(t, err)
		assert.Zero(t, c, ing.Name)
	}
}

func TestIngredientUsageCost_ScalesLinearly(t *testing.T) {
	for _, q := range []float64{1, 7.5, 250, 1e4} {
		single, err := IngredientUsageCost(usage(q, UnitMl, milk))
		require.NoError(t, err)
		double, err := IngredientUsageCost(usage(2*q, UnitMl, milk))
		require.NoError(t, err)
		assert.InDelta(t, 2*single, double, 1e-9*double)
	}
}

func TestRecipeCost(t *testing.T) {
	a := RecipeItem{Quantity: 250, Unit: UnitG, Ingredient: flour}
	b := RecipeItem{Quantity: 200, Unit: UnitMl, Ingredient: milk}

	t.Run("empty", func(t *testing.T) {
		c, err := RecipeCost(nil)
		require.NoError(t, err)
		assert.Zero(t, c)
	})

	t.Run("additive", func(t *testing.T) {
		ca, err := a.Cost()
		require.NoError(t, err)
		cb, err := b.Cost()
		require.NoError(t, err)
		total, err := RecipeCost([]RecipeItem{a, b})
		require.NoError(t, err)
		assert.InDelta(t, ca+cb, total, 1e-12)
	})

	t.Run("one failure fails the recipe", func(t *testing.T) {
		broken := RecipeItem{Quantity: 1, Unit: UnitCup, Ingredient: flour}
		_, err := RecipeCost([]RecipeItem{a, broken, b})
		require.ErrorIs(t, err, ErrMissingDensity)
		assert.Contains(t, err.Error(), "item 1 (Flour)")
	})
}

func TestRecipeAllItemsFlattensSections(t *testing.T) {
	r := Recipe{
		Items: []RecipeItem{{Quantity: 100, Unit: UnitG, Ingredient: flour}},
		Sections: []Section{
			{Name: "Dough", Items: []RecipeItem{{Quantity: 400, Unit: UnitG, Ingredient: flour}}},
			{Name: "Glaze", Items: []RecipeItem{{Quantity: 1, Unit: UnitEach, Ingredient: eggs}}},
		},
	}
	items := r.AllItems()
	require.Len(t, items, 3)
	assert.Equal(t, 400.0, items[1].Quantity)

	flat := Recipe{Items: items}
	want, err := RecipeCost(flat.Items)
	require.NoError(t, err)
	got, err := RecipeCost(r.AllItems())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCostPerOutputUnit(t *testing.T) {
	c, err := CostPerOutputUnit(12.00, 24)
	require.NoError(t, err)
	assert.InDelta(t, 0.50, c, 1e-12)

	for _, y := range []float64{0, -1} {
		_, err := CostPerOutputUnit(12, y)
		assert.ErrorIs(t, err, ErrInvalidYield)
	}
}

func TestCogsPercentage(t *testing.T) {
	p := CogsPercentage(0.50, ptr(2.00))
	require.NotNil(t, p)
	assert.InDelta(t, 25, *p, 1e-12)

	assert.Nil(t, CogsPercentage(0.50, nil))
	assert.Nil(t, CogsPercentage(0.50, ptr(0)))
	assert.Nil(t, CogsPercentage(0.50, ptr(-2)))
}

func TestBakeryScenario(t *testing.T) {
	usageCost, err := IngredientUsageCost(usage(250, UnitG, flour))
	require.NoError(t, err)
	assert.InDelta(t, 0.60, usageCost, 1e-12)

	perEach, err := CostPerOutputUnit(usageCost, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.06, perEach, 1e-12)

	cogs := CogsPercentage(perEach, ptr(0.30))
	require.NotNil(t, cogs)
	assert.InDelta(t, 20, *cogs, 1e-9)
}

func TestWithTier(t *testing.T) {
	bulk := flour
	bulk.BatchPricing = []PriceTier{
		{PackQuantity: 16000, PackPrice: 28.00},
		{PackQuantity: 12, PackPrice: 24.00, PurchaseUnit: "case", UnitSize: 1000},
	}

	priced, err := bulk.WithTier(0)
	require.NoError(t, err)
	c, err := IngredientUsageCost(usage(250, UnitG, priced))
	require.NoError(t, err)
	assert.InDelta(t, 0.4375, c, 1e-12)

	priced, err = bulk.WithTier(1)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, priced.PackQuantity)

	_, err = bulk.WithTier(2)
	assert.ErrorIs(t, err, ErrNoSuchTier)

	// tiers never leak into the base price
	c, err = IngredientUsageCost(usage(250, UnitG, bulk))
	require.NoError(t, err)
	assert.InDelta(t, 0.60, c, 1e-12)
}

func TestUnitPrice(t *testing.T) {
	p, err := flour.UnitPrice()
	require.NoError(t, err)
	assert.InDelta(t, 0.0024, p, 1e-15)

	_, err = Ingredient{Name: "x"}.UnitPrice()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
