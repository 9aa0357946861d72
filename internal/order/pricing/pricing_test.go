package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: dec("100.00")},
		{Quantity: 1, UnitPrice: dec("40.00")},
	}

	totals := ComputeTotals(lines, dec("0.05"))

	assert.Equal(t, "240.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "12.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "252.00", totals.Total.StringFixed(2))
}

func TestComputeTotalsRoundsHalfUp(t *testing.T) {
	lines := []Line{{Quantity: 1, UnitPrice: dec("10.10")}}

	totals := ComputeTotals(lines, dec("0.05"))

	// 10.10 * 0.05 = 0.505
	assert.Equal(t, "0.51", totals.Tax.StringFixed(2))
	assert.Equal(t, "10.61", totals.Total.StringFixed(2))
}

func TestLineSubtotalAppliesDiscount(t *testing.T) {
	got := LineSubtotal(Line{Quantity: 3, UnitPrice: dec("9.99"), Discount: dec("2.97")})
	assert.Equal(t, "27.00", got.StringFixed(2))
}

func TestChange(t *testing.T) {
	assert.Equal(t, "48.00", Change(dec("252.00"), dec("300.00")).StringFixed(2))
	assert.True(t, Change(dec("252.00"), dec("252.00")).IsZero())
	assert.True(t, Change(dec("252.00"), dec("200.00")).IsZero())
}

func TestSum(t *testing.T) {
	assert.Equal(t, "300.00", Sum(dec("200.00"), dec("100.00")).StringFixed(2))
	assert.True(t, Sum().IsZero())
}
