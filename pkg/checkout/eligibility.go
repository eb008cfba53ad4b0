package checkout

import (
	"github.com/vertilift/vertilift-backend/pkg/enums"
)

// IdentitySnapshot carries the identity facts the resolver needs. It is built
// once at the transport boundary and passed explicitly; nothing below the
// middleware reads ambient user state.
type IdentitySnapshot struct {
	IsSignedIn            bool
	BusinessProfileExists bool
	VerificationStatus    enums.VerificationStatus
}

// ResolvePermission maps an identity snapshot to a checkout tier. Total over
// all inputs: every combination yields exactly one permission.
func ResolvePermission(identity IdentitySnapshot) enums.CheckoutPermission {
	switch {
	case !identity.IsSignedIn:
		return enums.CheckoutPermissionBlockedSignin
	case !identity.BusinessProfileExists:
		return enums.CheckoutPermissionIndividual
	case !identity.VerificationStatus.IsVerified():
		return enums.CheckoutPermissionBlockedVerify
	default:
		return enums.CheckoutPermissionFull
	}
}

// PaymentMethodsFor lists the payment methods available to a tier.
func PaymentMethodsFor(permission enums.CheckoutPermission) []enums.PaymentMethod {
	if !permission.CanPlaceOrder() {
		return nil
	}
	return []enums.PaymentMethod{enums.PaymentMethodCOD}
}

// ShippingMethodsFor lists the shipping methods available to a tier.
func ShippingMethodsFor(permission enums.CheckoutPermission) []enums.ShippingMethod {
	if !permission.CanPlaceOrder() {
		return nil
	}
	return []enums.ShippingMethod{enums.ShippingMethodDoorstep, enums.ShippingMethodPickup}
}
