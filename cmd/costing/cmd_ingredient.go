package main

import (
	"fmt"
	"strconv"
	"strings"

	"costing"
	"costing/catalog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newIngredientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredient",
		Short: "Manage catalog ingredients",
	}
	cmd.AddCommand(newIngredientAddCmd(a), newIngredientListCmd(a))
	return cmd
}

func newIngredientAddCmd(a *app) *cobra.Command {
	var (
		currency string
		density  float64
		tiers    []string
	)
	cmd := &cobra.Command{
		Use:   "add <name> <pack-quantity> <unit> <pack-price>",
		Short: "Add an ingredient bought in packs",
		Example: `  costing ingredient add Flour 1.5 kg 3.60
  costing ingredient add Milk 2 l 1.50 --density 1.03 --tier 6x2000=8.40`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid pack quantity %q: %w", args[1], err)
			}
			price, err := decimal.NewFromString(args[3])
			if err != nil {
				return fmt.Errorf("invalid pack price %q: %w", args[3], err)
			}
			in := catalog.NewIngredient{
				Name:     args[0],
				Quantity: qty,
				Unit:     args[2],
				Price:    price,
				Currency: currency,
			}
			if cmd.Flags().Changed("density") {
				in.DensityGPerMl = &density
			}
			for _, s := range tiers {
				tier, err := parseTier(s)
				if err != nil {
					return err
				}
				in.Tiers = append(in.Tiers, tier)
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ing, err := st.AddIngredient(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) as %s\n", ing.Name, ing.ID,
				costing.Quantity{Amount: ing.PackQuantity, Unit: ing.PackUnit})
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "currency of the pack price (default: base currency)")
	cmd.Flags().Float64Var(&density, "density", 0, "grams per millilitre")
	cmd.Flags().StringArrayVar(&tiers, "tier", nil, "bulk price tier as QTY=PRICE or COUNTxSIZE=PRICE, sizes in base units")
	return cmd
}

// parseTier reads "25000=45.00" or "6x2000=8.40".
func parseTier(s string) (costing.PriceTier, error) {
	qtyStr, priceStr, ok := strings.Cut(s, "=")
	if !ok {
		return costing.PriceTier{}, fmt.Errorf("tier %q: want QTY=PRICE", s)
	}
	price, err := costing.ParseMoney(priceStr)
	if err != nil {
		return costing.PriceTier{}, fmt.Errorf("tier %q: %w", s, err)
	}
	var tier costing.PriceTier
	tier.PackPrice = price
	countStr, sizeStr, bulk := strings.Cut(qtyStr, "x")
	if tier.PackQuantity, err = strconv.ParseFloat(countStr, 64); err != nil {
		return costing.PriceTier{}, fmt.Errorf("tier %q: %w", s, err)
	}
	if bulk {
		if tier.UnitSize, err = strconv.ParseFloat(sizeStr, 64); err != nil {
			return costing.PriceTier{}, fmt.Errorf("tier %q: %w", s, err)
		}
		tier.PurchaseUnit = "case"
	}
	return tier, nil
}

func newIngredientListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ings, err := st.ListIngredients(cmd.Context())
			if err != nil {
				return err
			}

			t := newTable("Ingredients", "Name", "Pack", "Price", "Unit price", "Density", "Tiers")
			for _, ing := range ings {
				pack := "—"
				if q, err := ing.PurchaseQuantity(); err == nil {
					pack = costing.Quantity{Amount: q, Unit: ing.PurchaseUnit}.String()
				}
				unitPrice, err := ing.UnitPrice()
				density := "—"
				if ing.DensityGPerMl != nil {
					density = strconv.FormatFloat(*ing.DensityGPerMl, 'f', -1, 64) + " g/ml"
				}
				t.addRow(ing.Name, pack,
					costing.FormatMoney(ing.PackPrice, ing.Currency),
					costing.FormatCost(unitPrice, err, "")+"/"+string(ing.PackUnit),
					density,
					strconv.Itoa(len(ing.BatchPricing)))
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
			return nil
		},
	}
}
