package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
)

// GSTRate is the flat tax applied to the discounted subtotal.
var GSTRate = decimal.NewFromFloat(0.18)

var hundred = decimal.NewFromInt(100)

// LineInput is the pricing-relevant slice of a quote item.
type LineInput struct {
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Totals is the monetary aggregate over a set of lines. Values are computed in
// the base monetary unit with no intermediate rounding; display rounding
// happens at presentation only.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountTotal  decimal.Decimal
	TaxTotal       decimal.Decimal
	EstimatedTotal decimal.Decimal
}

// LineTotal derives the persisted total for a single line:
// unit_price * quantity * (1 - discount/100).
func LineTotal(unitPrice decimal.Decimal, quantity int, discountPercentage decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return gross.Sub(gross.Mul(discountPercentage.Div(hundred)))
}

// Compute recomputes the aggregate totals over the provided lines. The
// function is pure and idempotent: identical inputs always yield identical
// outputs.
func Compute(lines []LineInput) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, line := range lines {
		gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(gross)
		discount = discount.Add(gross.Mul(line.DiscountPercentage.Div(hundred)))
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(GSTRate)
	return Totals{
		Subtotal:       subtotal,
		DiscountTotal:  discount,
		TaxTotal:       tax,
		EstimatedTotal: taxable.Add(tax),
	}
}

// ValidateUnitPrice rejects malformed price input before any mutation.
func ValidateUnitPrice(value decimal.Decimal) error {
	if value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	return nil
}

// ValidateDiscountPercentage rejects out-of-range discount input.
func ValidateDiscountPercentage(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("discount percentage must be between 0 and 100, got %s", value))
	}
	return nil
}

// ValidateQuantity rejects non-positive quantities.
func ValidateQuantity(value int) error {
	if value < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}
