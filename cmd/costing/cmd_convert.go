package main

import (
	"fmt"
	"strconv"

	"costing"

	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var density float64
	cmd := &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert a quantity between units",
		Example: `  costing convert 2 cups tbsp
  costing convert 1 cup g --density 0.53`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			from, err := costing.ParseUnit(args[1])
			if err != nil {
				return err
			}
			to, err := costing.ParseUnit(args[2])
			if err != nil {
				return err
			}
			var d *float64
			if cmd.Flags().Changed("density") {
				d = &density
			}
			v, err := costing.Convert(amount, from, to, d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64), to)
			return nil
		},
	}
	cmd.Flags().Float64Var(&density, "density", 0, "grams per millilitre, needed between mass and volume")
	return cmd
}
