package costing

import "fmt"

// ConvertIngredient reprices ing, including its batch tiers, in the
// converter's base currency.
func (cc *CurrencyConverter) ConvertIngredient(ing Ingredient) (Ingredient, error) {
	price, err := cc.ConvertToBase(ing.PackPrice, ing.Currency)
	if err != nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", ing.Name, err)
	}
	out := ing
	out.PackPrice = price
	if len(ing.BatchPricing) > 0 {
		out.BatchPricing = make([]PriceTier, len(ing.BatchPricing))
		for i, tier := range ing.BatchPricing {
			tier.PackPrice, err = cc.ConvertToBase(tier.PackPrice, ing.Currency)
			if err != nil {
				return Ingredient{}, fmt.Errorf("ingredient %q tier %d: %w", ing.Name, i, err)
			}
			out.BatchPricing[i] = tier
		}
	}
	out.Currency = cc.base
	return out, nil
}

// ConvertRecipe reprices every ingredient used by r, and its selling price,
// in the base currency so cost and price can be compared.
func (cc *CurrencyConverter) ConvertRecipe(r Recipe) (Recipe, error) {
	out := r
	if r.SellingPrice != nil {
		price, err := cc.ConvertToBase(*r.SellingPrice, r.Currency)
		if err != nil {
			return Recipe{}, fmt.Errorf("selling price of %q: %w", r.Name, err)
		}
		out.SellingPrice = &price
	}
	out.Currency = cc.base
	out.Items = make([]RecipeItem, len(r.Items))
	for i, it := range r.Items {
		ing, err := cc.ConvertIngredient(it.Ingredient)
		if err != nil {
			return Recipe{}, err
		}
		it.Ingredient = ing
		out.Items[i] = it
	}
	out.Sections = make([]Section, len(r.Sections))
	for i, s := range r.Sections {
		items := make([]RecipeItem, len(s.Items))
		for j, it := range s.Items {
			ing, err := cc.ConvertIngredient(it.Ingredient)
			if err != nil {
				return Recipe{}, fmt.Errorf("section %q: %w", s.Name, err)
			}
			it.Ingredient = ing
			items[j] = it
		}
		out.Sections[i] = Section{Name: s.Name, Items: items}
	}
	return out, nil
}
