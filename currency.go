package costing

import (
	"fmt"
	"strings"
)

// CurrencyConverter holds exchange rates into a single base currency.
type CurrencyConverter struct {
	rates map[string]float64 // e.g., "EUR" -> rate to base currency like GBP
	base  string
}

func NewCurrencyConverter(base string) *CurrencyConverter {
	return &CurrencyConverter{
		rates: make(map[string]float64),
		base:  normalizeCurrency(base),
	}
}

func (cc *CurrencyConverter) Base() string {
	return cc.base
}

// AddRate registers how many base units one unit of currency buys.
func (cc *CurrencyConverter) AddRate(currency string, toBase float64) {
	cc.rates[normalizeCurrency(currency)] = toBase
}

// ConvertToBase converts amount into the base currency. An empty currency is
// taken to already be the base.
func (cc *CurrencyConverter) ConvertToBase(amount float64, currency string) (float64, error) {
	currency = normalizeCurrency(currency)
	if currency == "" || currency == cc.base {
		return amount, nil
	}
	rate, ok := cc.rates[currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnknownCurrency, currency, cc.base)
	}
	return amount * rate, nil
}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
