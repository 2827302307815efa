package costing

import (
	"sort"
)

// Summary holds the derived figures shown on recipe reports.
type Summary struct {
	RecipeID          string
	Name              string
	TotalCost         float64
	YieldQuantity     float64
	YieldUnit         BaseUnit
	CostPerOutputUnit float64
	SellingPrice      *float64
	CogsPercentage    *float64 // nil when no selling price is set
}

// Summarize costs a recipe and derives its per-unit cost and COGS.
func Summarize(r Recipe) (Summary, error) {
	total, err := RecipeCost(r.AllItems())
	if err != nil {
		return Summary{}, err
	}
	perUnit, err := CostPerOutputUnit(total, r.YieldQuantity)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		RecipeID:          r.ID,
		Name:              r.Name,
		TotalCost:         total,
		YieldQuantity:     r.YieldQuantity,
		YieldUnit:         r.YieldUnit,
		CostPerOutputUnit: perUnit,
		SellingPrice:      r.SellingPrice,
		CogsPercentage:    CogsPercentage(perUnit, r.SellingPrice),
	}, nil
}

// SortSummaries orders summaries by COGS percentage, highest first, with
// recipes that have no selling price last. Ties sort by name.
func SortSummaries(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return LessSummary(summaries[i], summaries[j])
	})
}

// LessSummary is the ordering used by SortSummaries.
func LessSummary(a, b Summary) bool {
	pa, pb := a.CogsPercentage, b.CogsPercentage
	switch {
	case pa == nil && pb == nil:
		return a.Name < b.Name
	case pa == nil:
		return false
	case pb == nil:
		return true
	case *pa != *pb:
		return *pa > *pb
	}
	return a.Name < b.Name
}
