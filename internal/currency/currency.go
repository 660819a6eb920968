// Package currency implements the supported currencies and the
// pivot-mediated conversion between them.
//
// All exchange rates are expressed relative to one fixed pivot currency,
// never relative to the user's base currency. This keeps the rate table
// stable when the base currency changes: display and edit paths derive
// the rate relative to the base on the fly with Rate.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Code identifies a supported currency.
type Code string

const (
	UYU Code = "UYU"
	USD Code = "USD"
	EUR Code = "EUR"
)

// Pivot is the currency all rates are relative to. Its rate is always
// exactly 1.
const Pivot = UYU

// Codes lists all supported currencies.
var Codes = []Code{UYU, USD, EUR}

// Info carries the immutable display properties of a currency.
type Info struct {
	Code   Code   `json:"code" example:"UYU"`
	Symbol string `json:"symbol" example:"$U"`
	Name   string `json:"name" example:"Uruguayan Peso"`
}

var infos = map[Code]Info{
	UYU: {Code: UYU, Symbol: "$U", Name: "Uruguayan Peso"},
	USD: {Code: USD, Symbol: "$", Name: "US Dollar"},
	EUR: {Code: EUR, Symbol: "€", Name: "Euro"},
}

var (
	ErrUnknownCurrency = errors.New("this currency is not supported")
	ErrRateMissing     = errors.New("the rate table is missing a rate for")
	ErrRateNotPositive = errors.New("exchange rates must be larger than zero")
	ErrPivotRateNotOne = errors.New("the rate for the pivot currency must be exactly 1")
)

// Valid reports whether the code is a supported currency.
func (c Code) Valid() bool {
	_, ok := infos[c]
	return ok
}

// Get returns the display properties for a currency.
func Get(c Code) (Info, error) {
	info, ok := infos[c]
	if !ok {
		return Info{}, ErrUnknownCurrency
	}

	return info, nil
}

// All returns the display properties for all supported currencies in a
// stable order.
func All() []Info {
	all := make([]Info, 0, len(Codes))
	for _, c := range Codes {
		all = append(all, infos[c])
	}

	return all
}

// RateTable maps every supported currency to its rate: the number of
// pivot currency units one unit of that currency is worth.
type RateTable map[Code]decimal.Decimal

// Validate checks that the table is complete and usable for conversion.
//
// A missing or non-positive rate is a configuration defect, not a user
// error: Convert assumes a validated table and does not repair one.
func (t RateTable) Validate() error {
	for _, c := range Codes {
		rate, ok := t[c]
		if !ok {
			return fmt.Errorf("%w %s", ErrRateMissing, c)
		}

		if !rate.IsPositive() {
			return fmt.Errorf("%w, got %s for %s", ErrRateNotPositive, rate, c)
		}
	}

	if !t[Pivot].Equal(decimal.NewFromInt(1)) {
		return ErrPivotRateNotOne
	}

	return nil
}

// Convert converts an amount between two currencies through the pivot.
//
// The table must have been validated by the caller. Same-currency
// conversions return the amount unchanged before any arithmetic so that
// round trips cannot drift.
func Convert(amount decimal.Decimal, from, to Code, t RateTable) decimal.Decimal {
	if from == to {
		return amount
	}

	inPivot := amount
	if from != Pivot {
		inPivot = amount.Mul(t[from])
	}

	if to == Pivot {
		return inPivot
	}

	return inPivot.Div(t[to])
}

// Rate returns the exchange rate between two currencies, i.e. the value
// of one unit of from in to.
func Rate(from, to Code, t RateTable) decimal.Decimal {
	return Convert(decimal.NewFromInt(1), from, to, t)
}
