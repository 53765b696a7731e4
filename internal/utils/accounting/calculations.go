package accounting

import (
	"fmt"

	"github.com/corebooks/corebooks_backend/internal/core/domain"
	"github.com/corebooks/corebooks_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// SumLines totals the debit and credit sides of a set of journal lines at
// the money scale.
func SumLines(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return money.Round(totalDebit), money.Round(totalCredit)
}

// IsBalanced reports whether the lines' debits equal their credits exactly
// at the money scale.
func IsBalanced(lines []domain.JournalLine) bool {
	debit, credit := SumLines(lines)
	return money.Equal(debit, credit)
}

// ValidateLine enforces the debit-XOR-credit rule: exactly one side must be
// positive and the other zero.
func ValidateLine(line domain.JournalLine) error {
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("line %d: amounts must not be negative", line.LineNumber)
	}
	if debitSet == creditSet {
		return fmt.Errorf("line %d: exactly one of debit or credit must be positive", line.LineNumber)
	}
	return nil
}

// ConvertLine fills the base-currency amounts of a line from the entry's
// exchange-rate snapshot.
func ConvertLine(line domain.JournalLine, rate decimal.Decimal) domain.JournalLine {
	line.Debit = money.Round(line.Debit)
	line.Credit = money.Round(line.Credit)
	line.BaseDebit = money.Convert(line.Debit, rate)
	line.BaseCredit = money.Convert(line.Credit, rate)
	return line
}

// SwapSides flips every line's debit and credit, producing the line set of
// a reversing entry.
func SwapSides(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		swapped := line
		swapped.Debit, swapped.Credit = line.Credit, line.Debit
		swapped.BaseDebit, swapped.BaseCredit = line.BaseCredit, line.BaseDebit
		out[i] = swapped
	}
	return out
}
