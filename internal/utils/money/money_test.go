package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/corebooks/corebooks_backend/internal/utils/money"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact two places", "10.00", "10.00"},
		{"rounds half up", "10.005", "10.01"},
		{"rounds down below half", "10.004", "10.00"},
		{"negative half away from zero", "-10.005", "-10.01"},
		{"trims excess precision", "3.14159", "3.14"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, dec(tc.expected).Equal(money.Round(dec(tc.input))),
				"Round(%s) should be %s, got %s", tc.input, tc.expected, money.Round(dec(tc.input)))
		})
	}
}

func TestRoundRate_SixPlaces(t *testing.T) {
	assert.True(t, dec("1.234568").Equal(money.RoundRate(dec("1.2345675"))))
	assert.True(t, dec("1.000000").Equal(money.RoundRate(dec("1"))))
}

func TestConvert(t *testing.T) {
	// 100.00 at 1.234567 = 123.4567 -> 123.46
	assert.True(t, dec("123.46").Equal(money.Convert(dec("100.00"), dec("1.234567"))))
	// Identity rate leaves the amount unchanged.
	assert.True(t, dec("42.50").Equal(money.Convert(dec("42.50"), dec("1"))))
}

func TestEqual_ExactAtScale(t *testing.T) {
	assert.True(t, money.Equal(dec("10.00"), dec("10")))
	assert.True(t, money.Equal(dec("10.004"), dec("10.001")), "both round to 10.00")
	assert.False(t, money.Equal(dec("10.00"), dec("10.01")), "one cent apart is never equal")
}

func TestIsZero(t *testing.T) {
	assert.True(t, money.IsZero(decimal.Zero))
	assert.True(t, money.IsZero(dec("0.001")), "rounds to zero at the money scale")
	assert.False(t, money.IsZero(dec("0.01")))
}

func TestWeightedAverage(t *testing.T) {
	// 100 units at 10.00 plus 50 units at 13.00 = 1650 / 150 = 11.00
	avg := money.WeightedAverage(dec("100"), dec("10.00"), dec("50"), dec("13.00"))
	assert.True(t, dec("11.00").Equal(avg), "got %s", avg)

	// First receipt into empty stock takes the incoming cost.
	avg = money.WeightedAverage(decimal.Zero, decimal.Zero, dec("10"), dec("7.50"))
	assert.True(t, dec("7.50").Equal(avg))

	// Zero resulting quantity keeps the previous cost basis.
	avg = money.WeightedAverage(dec("10"), dec("9.25"), dec("-10"), dec("0"))
	assert.True(t, dec("9.25").Equal(avg))
}

func TestNet(t *testing.T) {
	assert.True(t, dec("25.00").Equal(money.Net(dec("100.00"), dec("75.00"))))
	assert.True(t, dec("-25.00").Equal(money.Net(dec("75.00"), dec("100.00"))))
}
