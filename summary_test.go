package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	r := Recipe{
		ID:            "scones",
		Name:          "Scones",
		YieldQuantity: 10,
		YieldUnit:     BaseEach,
		SellingPrice:  ptr(0.30),
		Sections: []Section{
			{Name: "Dry", Items: []RecipeItem{{Quantity: 250, Unit: UnitG, Ingredient: flour}}},
		},
	}

	s, err := Summarize(r)
	require.NoError(t, err)
	assert.InDelta(t, 0.60, s.TotalCost, 1e-12)
	assert.InDelta(t, 0.06, s.CostPerOutputUnit, 1e-12)
	require.NotNil(t, s.CogsPercentage)
	assert.InDelta(t, 20, *s.CogsPercentage, 1e-9)

	r.SellingPrice = nil
	s, err = Summarize(r)
	require.NoError(t, err)
	assert.Nil(t, s.CogsPercentage)

	r.YieldQuantity = 0
	_, err = Summarize(r)
	assert.ErrorIs(t, err, ErrInvalidYield)
}

func TestSortSummaries(t *testing.T) {
	summaries := []Summary{
		{Name: "Bagel"},
		{Name: "Brownie", CogsPercentage: ptr(18)},
		{Name: "Apple pie"},
		{Name: "Croissant", CogsPercentage: ptr(32)},
		{Name: "Baguette", CogsPercentage: ptr(18)},
	}
	SortSummaries(summaries)

	var names []string
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Croissant", "Baguette", "Brownie", "Apple pie", "Bagel"}, names)
}
