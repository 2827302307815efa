package costingmsgpack

import (
	"costing"
)

// ToUnit reads a unit name the way users type it ("grams", "Cups"). Names
// that are not units are kept as sent so costing reports ErrUnknownUnit.
func ToUnit(s string) costing.Unit {
	if u, err := costing.ParseUnit(s); err == nil {
		return u
	}
	return costing.Unit(s)
}

type PriceTier struct {
	PackQuantity float64 `msgpack:"pack_quantity,omitempty"`
	PackPrice    float64 `msgpack:"pack_price,omitempty"`
	PurchaseUnit string  `msgpack:"purchase_unit,omitempty"`
	UnitSize     float64 `msgpack:"unit_size,omitempty"`
}

type Ingredient struct {
	UUID          string      `msgpack:"uuid,omitempty"`
	Name          string      `msgpack:"name,omitempty"`
	PackQuantity  float64     `msgpack:"pack_quantity"`
	PackUnit      string      `msgpack:"pack_unit,omitempty"`
	PackPrice     float64     `msgpack:"pack_price"`
	Currency      string      `msgpack:"currency,omitempty"`
	DensityGPerMl *float64    `msgpack:"density_g_per_ml,omitempty"`
	BatchPricing  []PriceTier `msgpack:"batch_pricing,omitempty"`
}

type RecipeItem struct {
	Quantity   float64    `msgpack:"quantity"`
	Unit       string     `msgpack:"unit,omitempty"`
	Ingredient Ingredient `msgpack:"ingredient"`
}

type Section struct {
	Name  string       `msgpack:"name,omitempty"`
	Items []RecipeItem `msgpack:"items,omitempty"`
}

type Recipe struct {
	UUID          string       `msgpack:"uuid,omitempty"`
	Name          string       `msgpack:"name,omitempty"`
	YieldQuantity float64      `msgpack:"yield_quantity"`
	YieldUnit     string       `msgpack:"yield_unit,omitempty"`
	SellingPrice  *float64     `msgpack:"selling_price,omitempty"`
	Currency      string       `msgpack:"currency,omitempty"`
	Items         []RecipeItem `msgpack:"items,omitempty"`
	Sections      []Section    `msgpack:"sections,omitempty"`
}

type Summary struct {
	RecipeUUID        string   `msgpack:"recipe_uuid,omitempty"`
	Name              string   `msgpack:"name,omitempty"`
	TotalCost         float64  `msgpack:"total_cost"`
	YieldQuantity     float64  `msgpack:"yield_quantity"`
	YieldUnit         string   `msgpack:"yield_unit,omitempty"`
	CostPerOutputUnit float64  `msgpack:"cost_per_output_unit"`
	SellingPrice      *float64 `msgpack:"selling_price,omitempty"`
	CogsPercentage    *float64 `msgpack:"cogs_percentage,omitempty"`
}

type ConvertRequest struct {
	Amount        float64  `msgpack:"amount"`
	From          string   `msgpack:"from"`
	To            string   `msgpack:"to"`
	DensityGPerMl *float64 `msgpack:"density_g_per_ml,omitempty"`
}

type Quantity struct {
	Amount float64 `msgpack:"amount"`
	Unit   string  `msgpack:"unit"`
}

type UsageCostRequest struct {
	UsageQuantity float64    `msgpack:"usage_quantity"`
	UsageUnit     string     `msgpack:"usage_unit"`
	Ingredient    Ingredient `msgpack:"ingredient"`
}

type Cost struct {
	Cost float64 `msgpack:"cost"`
}

func NewIngredient(ing costing.Ingredient) Ingredient {
	var tiers []PriceTier
	for _, t := range ing.BatchPricing {
		tiers = append(tiers, PriceTier(t))
	}
	return Ingredient{
		UUID:          ing.ID,
		Name:          ing.Name,
		PackQuantity:  ing.PackQuantity,
		PackUnit:      string(ing.PackUnit),
		PackPrice:     ing.PackPrice,
		Currency:      ing.Currency,
		DensityGPerMl: ing.DensityGPerMl,
		BatchPricing:  tiers,
	}
}

func ToIngredient(ing *Ingredient) costing.Ingredient {
	var tiers []costing.PriceTier
	for _, t := range ing.BatchPricing {
		tiers = append(tiers, costing.PriceTier(t))
	}
	return costing.Ingredient{
		ID:            ing.UUID,
		Name:          ing.Name,
		PackQuantity:  ing.PackQuantity,
		PackUnit:      ToUnit(ing.PackUnit),
		PackPrice:     ing.PackPrice,
		Currency:      ing.Currency,
		DensityGPerMl: ing.DensityGPerMl,
		BatchPricing:  tiers,
	}
}

func NewRecipeItems(items []costing.RecipeItem) []RecipeItem {
	var out []RecipeItem
	for _, it := range items {
		out = append(out, RecipeItem{
			Quantity:   it.Quantity,
			Unit:       string(it.Unit),
			Ingredient: NewIngredient(it.Ingredient),
		})
	}
	return out
}

func ToRecipeItems(items []RecipeItem) []costing.RecipeItem {
	var out []costing.RecipeItem
	for i := range items {
		out = append(out, costing.RecipeItem{
			Quantity:   items[i].Quantity,
			Unit:       ToUnit(items[i].Unit),
			Ingredient: ToIngredient(&items[i].Ingredient),
		})
	}
	return out
}

func NewRecipe(r costing.Recipe) Recipe {
	var sections []Section
	for _, s := range r.Sections {
		sections = append(sections, Section{Name: s.Name, Items: NewRecipeItems(s.Items)})
	}
	return Recipe{
		UUID:          r.ID,
		Name:          r.Name,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     string(r.YieldUnit),
		SellingPrice:  r.SellingPrice,
		Currency:      r.Currency,
		Items:         NewRecipeItems(r.Items),
		Sections:      sections,
	}
}

func ToRecipe(r *Recipe) costing.Recipe {
	var sections []costing.Section
	for _, s := range r.Sections {
		sections = append(sections, costing.Section{Name: s.Name, Items: ToRecipeItems(s.Items)})
	}
	return costing.Recipe{
		ID:            r.UUID,
		Name:          r.Name,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     ToUnit(r.YieldUnit),
		SellingPrice:  r.SellingPrice,
		Currency:      r.Currency,
		Items:         ToRecipeItems(r.Items),
		Sections:      sections,
	}
}

func NewSummary(s costing.Summary) Summary {
	return Summary{
		RecipeUUID:        s.RecipeID,
		Name:              s.Name,
		TotalCost:         s.TotalCost,
		YieldQuantity:     s.YieldQuantity,
		YieldUnit:         string(s.YieldUnit),
		CostPerOutputUnit: s.CostPerOutputUnit,
		SellingPrice:      s.SellingPrice,
		CogsPercentage:    s.CogsPercentage,
	}
}

func ToSummary(s *Summary) costing.Summary {
	return costing.Summary{
		RecipeID:          s.RecipeUUID,
		Name:              s.Name,
		TotalCost:         s.TotalCost,
		YieldQuantity:     s.YieldQuantity,
		YieldUnit:         ToUnit(s.YieldUnit),
		CostPerOutputUnit: s.CostPerOutputUnit,
		SellingPrice:      s.SellingPrice,
		CogsPercentage:    s.CogsPercentage,
	}
}
