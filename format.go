package costing

import (
	"math"
	"strconv"
)

// FormatQuantity picks a readable unit for an amount held in base:
// milligrams and grams promote at 1000, kilograms below 1 go back to grams,
// millilitres and litres likewise. The amount is rounded to two decimals.
// Count units, negatives and NaN are returned as given.
func FormatQuantity(amount float64, base BaseUnit) Quantity {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Quantity{Amount: amount, Unit: base}
	}
	q := displayUnit(amount, base)
	q.Amount = math.Round(q.Amount*100) / 100
	// 999.996 g rounds to 1000 g, which shows as 1 kg
	if q.Amount >= 1000 && (q.Unit == UnitMg || q.Unit == UnitG || q.Unit == UnitMl) {
		return FormatQuantity(q.Amount, q.Unit)
	}
	return q
}

func displayUnit(amount float64, unit Unit) Quantity {
	switch {
	case unit == UnitMg && amount >= 1000:
		return displayUnit(amount/1000, UnitG)
	case unit == UnitG && amount >= 1000:
		return Quantity{Amount: amount / 1000, Unit: UnitKg}
	case unit == UnitKg && amount < 1:
		return Quantity{Amount: amount * 1000, Unit: UnitG}
	case unit == UnitMl && amount >= 1000:
		return Quantity{Amount: amount / 1000, Unit: UnitL}
	case unit == UnitL && amount < 1:
		return Quantity{Amount: amount * 1000, Unit: UnitMl}
	}
	return Quantity{Amount: amount, Unit: unit}
}

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Amount, 'f', -1, 64) + " " + string(q.Unit)
}
