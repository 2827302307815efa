package main

import (
	"fmt"

	"costing"
	"costing/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage and report on catalog recipes",
	}
	cmd.AddCommand(newRecipeImportCmd(a), newRecipeShowCmd(a), newRecipeReportCmd(a))
	return cmd
}

func newRecipeImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <recipe.yaml>...",
		Short: "Store recipe files, resolving ingredients by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			for _, path := range args {
				rf, err := readRecipeFile(path)
				if err != nil {
					return err
				}
				nr, err := rf.newRecipe()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				id, err := st.AddRecipe(cmd.Context(), nr)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.logger.Info("recipe imported", zap.String("path", path), zap.String("id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s)\n", nr.Name, id)
			}
			return nil
		},
	}
}

func newRecipeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the itemized cost of a stored recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			r, err := st.GetRecipeByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printRecipe(cmd.Context(), cmd.OutOrStdout(), r, localSummarize)
		},
	}
}

func newRecipeReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Cost every stored recipe, highest COGS first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			cc := a.cfg.CurrencyConverter()
			rows, err := st.Report(cmd.Context(), cc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), reportTable(rows, cc.Base()))
			return nil
		},
	}
}

func reportTable(rows []catalog.ReportRow, cur string) *table {
	t := newTable("Recipe costs", "Recipe", "Yield", "Total", "Per unit", "Price", "COGS")
	for _, row := range rows {
		price := "—"
		if row.SellingPrice != nil {
			price = costing.FormatMoney(*row.SellingPrice, cur)
		}
		t.addRow(row.Name,
			costing.FormatQuantity(row.YieldQuantity, row.YieldUnit).String(),
			costing.FormatCost(row.TotalCost, row.Err, cur),
			costing.FormatCost(row.CostPerOutputUnit, row.Err, cur),
			price,
			costing.FormatPercent(row.CogsPercentage))
	}
	return t
}
