package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimals money is shown with.
const MoneyPrecision int32 = 2

// ParseMoney reads a decimal price string such as "2.40".
func ParseMoney(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// FormatMoney renders v rounded half away from zero to MoneyPrecision
// decimals, with an optional currency code.
func FormatMoney(v float64, currency string) string {
	s := decimal.NewFromFloat(v).StringFixed(MoneyPrecision)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatCost renders the result of a costing call for display. Costing
// errors are shown as a dash, never as a zero cost.
func FormatCost(v float64, err error, currency string) string {
	if err != nil {
		return "—"
	}
	return FormatMoney(v, currency)
}

// FormatPercent renders a COGS percentage; nil means no selling price is set.
func FormatPercent(p *float64) string {
	if p == nil {
		return "—"
	}
	return decimal.NewFromFloat(*p).StringFixed(1) + "%"
}
