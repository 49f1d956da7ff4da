package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CartLine is one entry in the working cart. Lines are keyed by exact,
// case-sensitive product name; a cart never holds two lines with the same
// name and a line's quantity is never below 1.
type CartLine struct {
	Name      string
	UnitPrice Money
	Quantity  int
}

// LineTotal is UnitPrice multiplied by Quantity.
func (l CartLine) LineTotal() Money {
	return Money{
		Amount:   l.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(l.Quantity))),
		Currency: l.UnitPrice.Currency,
	}
}

// CartSubtotal sums the line totals of the given lines in the given currency.
func CartSubtotal(lines []CartLine, unit currency.Unit) Money {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal().Amount)
	}
	return Money{Amount: sum, Currency: unit}
}
