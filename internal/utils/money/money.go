// Package money centralises fixed-point decimal arithmetic for monetary
// values. Every total, balance and difference in the system goes through
// these helpers; nothing monetary is ever computed in binary floating point.
package money

import "github.com/shopspring/decimal"

const (
	// Scale is the fixed number of decimal places for monetary amounts.
	Scale int32 = 2
	// RateScale is the fixed number of decimal places for exchange rates
	// and conversion factors.
	RateScale int32 = 6
)

// Round normalises a monetary amount to the money scale (half-up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// RoundRate normalises an exchange rate to the rate scale (half-up).
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// Convert multiplies an amount by a rate and rounds to the money scale.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// Equal compares two monetary amounts for exact equality at the money scale.
// "Is balanced" checks must use this, never an epsilon tolerance.
func Equal(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}

// IsZero reports whether the amount is zero at the money scale.
func IsZero(d decimal.Decimal) bool {
	return Round(d).IsZero()
}

// WeightedAverage computes the weighted mean unit cost after adding addQty
// units at addCost to oldQty units carried at oldAvg, rounded to the money
// scale. When the resulting quantity is zero the old average is kept, so a
// stock that empties out retains its last cost basis.
func WeightedAverage(oldQty, oldAvg, addQty, addCost decimal.Decimal) decimal.Decimal {
	totalQty := oldQty.Add(addQty)
	if totalQty.IsZero() {
		return Round(oldAvg)
	}
	totalValue := oldQty.Mul(oldAvg).Add(addQty.Mul(addCost))
	return Round(totalValue.Div(totalQty))
}

// Net returns debit − credit at the money scale.
func Net(debit, credit decimal.Decimal) decimal.Decimal {
	return Round(debit.Sub(credit))
}
