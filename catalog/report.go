package catalog

import (
	"context"
	"sort"

	"costing"

	"go.uber.org/zap"
)

// ReportRow is one recipe on the costing report. Err is set when the recipe
// could not be costed; its figures are then unknown, not zero.
type ReportRow struct {
	costing.Summary
	Err error
}

// Report costs every stored recipe. Prices are first converted into the
// converter's base currency when cc is non-nil. Rows are ordered by COGS
// percentage with unpriced recipes and then failed recipes last.
func (st *Store) Report(ctx context.Context, cc *costing.CurrencyConverter) ([]ReportRow, error) {
	recipes, err := st.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]ReportRow, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, summarizeRow(r, cc, st.logger))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		return costing.LessSummary(a.Summary, b.Summary)
	})
	return rows, nil
}

func summarizeRow(r costing.Recipe, cc *costing.CurrencyConverter, logger *zap.Logger) ReportRow {
	failed := ReportRow{Summary: costing.Summary{
		RecipeID:      r.ID,
		Name:          r.Name,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		SellingPrice:  r.SellingPrice,
	}}
	if cc != nil {
		// a price that cannot be converted is not shown
		failed.SellingPrice = nil
		if r.SellingPrice != nil {
			if p, err := cc.ConvertToBase(*r.SellingPrice, r.Currency); err == nil {
				failed.SellingPrice = &p
			}
		}
		converted, err := cc.ConvertRecipe(r)
		if err != nil {
			logger.Warn("recipe not costed", zap.String("recipe", r.Name), zap.Error(err))
			failed.Err = err
			return failed
		}
		r = converted
	}
	s, err := costing.Summarize(r)
	if err != nil {
		logger.Warn("recipe not costed", zap.String("recipe", r.Name), zap.Error(err))
		failed.Err = err
		return failed
	}
	return ReportRow{Summary: s}
}
