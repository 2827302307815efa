package costing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		base   BaseUnit
		want   Quantity
	}{
		{"grams stay", 250, UnitG, Quantity{250, UnitG}},
		{"grams promote", 1250, UnitG, Quantity{1.25, UnitKg}},
		{"threshold promotes", 1000, UnitG, Quantity{1, UnitKg}},
		{"small grams stay grams", 0.5, UnitG, Quantity{0.5, UnitG}},
		{"tiny kg goes to grams only", 0.0005, UnitKg, Quantity{0.5, UnitG}},
		{"milligrams stay", 250, UnitMg, Quantity{250, UnitMg}},
		{"grams rounding up to threshold", 999.996, UnitG, Quantity{1, UnitKg}},
		{"ml rounding up to threshold", 999.999, UnitMl, Quantity{1, UnitL}},
		{"mg rounding up to threshold", 999.999, UnitMg, Quantity{1, UnitG}},
		{"kg demoted then rounded up", 0.999996, UnitKg, Quantity{1, UnitKg}},
		{"grams just under threshold", 999.99, UnitG, Quantity{999.99, UnitG}},
		{"milligrams promote", 2500, UnitMg, Quantity{2.5, UnitG}},
		{"millions of milligrams", 2500000, UnitMg, Quantity{2.5, UnitKg}},
		{"kg below one demotes", 0.75, UnitKg, Quantity{750, UnitG}},
		{"ml promote", 1500, UnitMl, Quantity{1.5, UnitL}},
		{"ml stay", 999, UnitMl, Quantity{999, UnitMl}},
		{"litres below one demote", 0.33, UnitL, Quantity{330, UnitMl}},
		{"rounding", 1234.567, UnitG, Quantity{1.23, UnitKg}},
		{"count untouched", 2500, UnitEach, Quantity{2500, UnitEach}},
		{"negative passes through", -1500, UnitG, Quantity{-1500, UnitG}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatQuantity(tt.amount, tt.base)
			assert.Equal(t, tt.want.Unit, got.Unit)
			assert.InDelta(t, tt.want.Amount, got.Amount, 1e-9)
		})
	}
}

func TestFormatQuantity_NaN(t *testing.T) {
	got := FormatQuantity(math.NaN(), UnitG)
	assert.True(t, math.IsNaN(got.Amount))
	assert.Equal(t, UnitG, got.Unit)
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "1.25 kg", FormatQuantity(1250, UnitG).String())
	assert.Equal(t, "3 each", Quantity{3, UnitEach}.String())
}
