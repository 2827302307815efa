package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"costing"
	costingrpc "costing/rpc"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCostCmd(a *app) *cobra.Command {
	var (
		remote  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "cost <recipe.yaml>",
		Short: "Cost a recipe file without touching the catalog",
		Example: `  costing cost scones.yaml
  costing cost scones.yaml --remote 127.0.0.1:2001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := readRecipeFile(args[0])
			if err != nil {
				return err
			}
			r, err := rf.recipe()
			if err != nil {
				return err
			}
			a.logger.Debug("costing recipe file", zap.String("path", args[0]), zap.Int("items", len(r.AllItems())))

			summarize := summarizeFunc(localSummarize)
			if remote != "" {
				client, err := costingrpc.Dial(remote)
				if err != nil {
					return err
				}
				defer client.Close()
				client.SetTimeout(timeout)
				summarize = client.Summarize
			}
			return a.printRecipe(cmd.Context(), cmd.OutOrStdout(), r, summarize)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "summarize on a costing service at this UDP address")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "how long to wait for --remote")
	return cmd
}

type summarizeFunc func(context.Context, costing.Recipe) (costing.Summary, error)

func localSummarize(_ context.Context, r costing.Recipe) (costing.Summary, error) {
	return costing.Summarize(r)
}

// printRecipe writes the per-item costs and summary of r in the configured
// base currency. Anything that cannot be costed is shown as a dash and the
// first failure is returned.
func (a *app) printRecipe(ctx context.Context, out io.Writer, r costing.Recipe, summarize summarizeFunc) error {
	cc := a.cfg.CurrencyConverter()
	cur := cc.Base()

	t := newTable(r.Name, "Section", "Ingredient", "Quantity", "Cost")
	addItems := func(section string, items []costing.RecipeItem) {
		for _, it := range items {
			var c float64
			ing, err := cc.ConvertIngredient(it.Ingredient)
			if err == nil {
				it.Ingredient = ing
				c, err = it.Cost()
			}
			if err != nil {
				a.logger.Warn("item not costed", zap.String("ingredient", it.Ingredient.Name), zap.Error(err))
			}
			qty := costing.Quantity{Amount: it.Quantity, Unit: it.Unit}
			t.addRow(section, it.Ingredient.Name, qty.String(), costing.FormatCost(c, err, cur))
		}
	}
	addItems("", r.Items)
	for _, s := range r.Sections {
		addItems(s.Name, s.Items)
	}
	fmt.Fprint(out, t)

	var s costing.Summary
	converted, err := cc.ConvertRecipe(r)
	if err == nil {
		s, err = summarize(ctx, converted)
	}
	fmt.Fprintf(out, "Total:    %s\n", costing.FormatCost(s.TotalCost, err, cur))
	fmt.Fprintf(out, "Yield:    %s\n", costing.FormatQuantity(r.YieldQuantity, r.YieldUnit))
	fmt.Fprintf(out, "Per unit: %s\n", costing.FormatCost(s.CostPerOutputUnit, err, cur))
	if r.SellingPrice != nil {
		price, perr := cc.ConvertToBase(*r.SellingPrice, r.Currency)
		fmt.Fprintf(out, "Price:    %s\n", costing.FormatCost(price, perr, cur))
	}
	fmt.Fprintf(out, "COGS:     %s\n", costing.FormatPercent(s.CogsPercentage))
	return err
}
