package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/utils/accounting"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func debitLine(accountID, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: dec(amount), Credit: decimal.Zero}
}

func creditLine(accountID, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: dec(amount)}
}

func TestSumLines(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("acc-1", "100.00"),
		debitLine("acc-2", "50.00"),
		creditLine("acc-3", "150.00"),
	}
	debit, credit := accounting.SumLines(lines)
	assert.True(t, dec("150.00").Equal(debit))
	assert.True(t, dec("150.00").Equal(credit))
}

func TestIsBalanced(t *testing.T) {
	balanced := []domain.JournalLine{
		debitLine("acc-1", "99.99"),
		creditLine("acc-2", "99.99"),
	}
	assert.True(t, accounting.IsBalanced(balanced))

	offByOneCent := []domain.JournalLine{
		debitLine("acc-1", "100.00"),
		creditLine("acc-2", "99.99"),
	}
	assert.False(t, accounting.IsBalanced(offByOneCent), "a single cent difference must fail")
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{"debit only", debitLine("acc-1", "10.00"), false},
		{"credit only", creditLine("acc-1", "10.00"), false},
		{"both sides set", domain.JournalLine{AccountID: "acc-1", Debit: dec("10.00"), Credit: dec("10.00")}, true},
		{"both sides zero", domain.JournalLine{AccountID: "acc-1", Debit: decimal.Zero, Credit: decimal.Zero}, true},
		{"negative debit", domain.JournalLine{AccountID: "acc-1", Debit: dec("-10.00"), Credit: decimal.Zero}, true},
		{"negative credit", domain.JournalLine{AccountID: "acc-1", Debit: decimal.Zero, Credit: dec("-10.00")}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := accounting.ValidateLine(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConvertLine(t *testing.T) {
	line := debitLine("acc-1", "100.00")
	converted := accounting.ConvertLine(line, dec("1.25"))

	assert.True(t, dec("100.00").Equal(converted.Debit))
	assert.True(t, dec("125.00").Equal(converted.BaseDebit))
	assert.True(t, converted.BaseCredit.IsZero())

	// Raw amounts are normalised to the money scale before conversion.
	rough := domain.JournalLine{AccountID: "acc-2", Credit: dec("33.333")}
	converted = accounting.ConvertLine(rough, dec("3"))
	assert.True(t, dec("33.33").Equal(converted.Credit))
	assert.True(t, dec("99.99").Equal(converted.BaseCredit))
}

func TestSwapSides(t *testing.T) {
	lines := []domain.JournalLine{
		accounting.ConvertLine(debitLine("acc-1", "100.00"), dec("2")),
		accounting.ConvertLine(creditLine("acc-2", "100.00"), dec("2")),
	}
	swapped := accounting.SwapSides(lines)

	assert.Len(t, swapped, 2)
	assert.True(t, swapped[0].Credit.Equal(dec("100.00")))
	assert.True(t, swapped[0].Debit.IsZero())
	assert.True(t, swapped[0].BaseCredit.Equal(dec("200.00")))
	assert.True(t, swapped[1].Debit.Equal(dec("100.00")))
	assert.True(t, swapped[1].BaseDebit.Equal(dec("200.00")))

	// The input slice is left untouched.
	assert.True(t, lines[0].Debit.Equal(dec("100.00")))
}
