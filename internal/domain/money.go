package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String formats the amount with two decimals, prefixed by the ISO code when set.
func (m Money) String() string {
	if m.Currency == (currency.Unit{}) {
		return m.Amount.StringFixed(2)
	}
	return m.Currency.String() + " " + m.Amount.StringFixed(2)
}
