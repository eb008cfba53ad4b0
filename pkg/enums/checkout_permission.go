package enums

import "fmt"

// CheckoutPermission is the tier a shopper resolves to before checkout.
type CheckoutPermission string

const (
	CheckoutPermissionFull          CheckoutPermission = "full_checkout"
	CheckoutPermissionIndividual    CheckoutPermission = "individual_checkout"
	CheckoutPermissionBlockedVerify CheckoutPermission = "blocked_verify"
	CheckoutPermissionBlockedSignin CheckoutPermission = "blocked_signin"
)

var validCheckoutPermissions = []CheckoutPermission{
	CheckoutPermissionFull,
	CheckoutPermissionIndividual,
	CheckoutPermissionBlockedVerify,
	CheckoutPermissionBlockedSignin,
}

// String implements fmt.Stringer.
func (c CheckoutPermission) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutPermission.
func (c CheckoutPermission) IsValid() bool {
	for _, candidate := range validCheckoutPermissions {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanPlaceOrder reports whether the tier may reach order placement at all.
func (c CheckoutPermission) CanPlaceOrder() bool {
	return c == CheckoutPermissionFull || c == CheckoutPermissionIndividual
}

// CanSeePrices reports whether real prices are shown to this tier.
func (c CheckoutPermission) CanSeePrices() bool {
	return c == CheckoutPermissionFull || c == CheckoutPermissionIndividual
}

// ParseCheckoutPermission converts raw input into a CheckoutPermission.
func ParseCheckoutPermission(value string) (CheckoutPermission, error) {
	for _, candidate := range validCheckoutPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout permission %q", value)
}
