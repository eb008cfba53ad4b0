package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/pkg/enums"
)

// OrderLimits constrains the individual checkout tier.
type OrderLimits struct {
	MaxOrderValue      decimal.Decimal
	MaxQuantityPerItem int
}

// LimitItem is the per-line input for limit validation.
type LimitItem struct {
	ProductName string
	Quantity    int
}

// LimitResult collects limit violations. Violations are data, not errors: the
// caller decides whether they gate placement.
type LimitResult struct {
	CanProceed bool     `json:"can_proceed"`
	Violations []string `json:"violations,omitempty"`
}

// ValidateIndividualOrder evaluates the candidate order against the individual
// tier limits. Limits never apply outside individual_checkout; any other tier
// passes unconditionally.
func ValidateIndividualOrder(permission enums.CheckoutPermission, items []LimitItem, orderTotal decimal.Decimal, limits OrderLimits) LimitResult {
	if permission != enums.CheckoutPermissionIndividual {
		return LimitResult{CanProceed: true}
	}

	var violations []string
	if limits.MaxOrderValue.IsPositive() && orderTotal.GreaterThan(limits.MaxOrderValue) {
		violations = append(violations, fmt.Sprintf(
			"order value %s exceeds the individual checkout limit of %s",
			orderTotal.StringFixed(2), limits.MaxOrderValue.StringFixed(2)))
	}
	if limits.MaxQuantityPerItem > 0 {
		for _, item := range items {
			if item.Quantity > limits.MaxQuantityPerItem {
				violations = append(violations, fmt.Sprintf(
					"%s: quantity %d exceeds the per-item limit of %d",
					item.ProductName, item.Quantity, limits.MaxQuantityPerItem))
			}
		}
	}

	return LimitResult{
		CanProceed: len(violations) == 0,
		Violations: violations,
	}
}
