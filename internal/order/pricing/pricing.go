// Package pricing computes checkout amounts. All results are rounded half-up
// to two decimal places.
package pricing

import "github.com/shopspring/decimal"

const scale = 2

type Line struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(scale)
}

// LineSubtotal is unitPrice*quantity minus the line discount.
func LineSubtotal(l Line) decimal.Decimal {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
	return round(gross.Sub(l.Discount))
}

// ComputeTotals sums the line subtotals and applies taxRate on the result.
func ComputeTotals(lines []Line, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(LineSubtotal(line))
	}
	subtotal = round(subtotal)
	tax := round(subtotal.Mul(taxRate))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    round(subtotal.Add(tax)),
	}
}

// Sum adds payment amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return round(total)
}

// Change is what the cashier hands back; never negative.
func Change(total, paid decimal.Decimal) decimal.Decimal {
	change := paid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return round(change)
}
