package costingmsgpack

import (
	"testing"

	"costing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRecipeOverTheWireCostsTheSame(t *testing.T) {
	density := 1.03
	price := 4.5
	r := costing.Recipe{
		ID:            "custard",
		Name:          "Custard tart",
		YieldQuantity: 8,
		YieldUnit:     costing.BaseSlices,
		SellingPrice:  &price,
		Currency:      "EUR",
		Items: []costing.RecipeItem{
			{Quantity: 2, Unit: costing.UnitCup, Ingredient: costing.Ingredient{
				Name: "Milk", PackQuantity: 1000, PackUnit: costing.BaseGram, PackPrice: 1.10, DensityGPerMl: &density,
				BatchPricing: []costing.PriceTier{{PackQuantity: 6000, PackPrice: 5}},
			}},
		},
		Sections: []costing.Section{{Name: "Pastry", Items: []costing.RecipeItem{
			{Quantity: 200, Unit: costing.UnitG, Ingredient: costing.Ingredient{Name: "Flour", PackQuantity: 1000, PackUnit: costing.BaseGram, PackPrice: 2.40}},
		}}},
	}

	b, err := msgpack.Marshal(NewRecipe(r))
	require.NoError(t, err)
	var wire Recipe
	require.NoError(t, msgpack.Unmarshal(b, &wire))
	back := ToRecipe(&wire)

	assert.Equal(t, r, back)

	want, err := costing.Summarize(r)
	require.NoError(t, err)
	got, err := costing.Summarize(back)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestToUnit(t *testing.T) {
	assert.Equal(t, costing.UnitG, ToUnit("grams"))
	assert.Equal(t, costing.UnitCup, ToUnit(" Cups "))
	assert.Equal(t, costing.Unit("bushel"), ToUnit("bushel"))

	_, err := costing.IngredientUsageCost(costing.UsageCostInput{
		UsageQuantity: 1,
		UsageUnit:     ToUnit("bushel"),
		Ingredient:    costing.Ingredient{Name: "Flour", PackQuantity: 1000, PackUnit: costing.BaseGram, PackPrice: 2.40},
	})
	assert.ErrorIs(t, err, costing.ErrUnknownUnit)
}
