package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/pkg/checkout"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/types"
)

// CartItemInput is one line from the storefront cart. Cart prices come from
// the catalog; quote-sourced checkouts ignore this and use the quote snapshot.
type CartItemInput struct {
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type PlaceOrderInput struct {
	Identity      checkout.IdentitySnapshot
	CustomerID    string
	CustomerName  string
	CustomerEmail string

	Source  enums.CheckoutSource
	QuoteID *uuid.UUID
	Items   []CartItemInput

	PaymentMethod    enums.PaymentMethod
	ShippingMethod   enums.ShippingMethod
	PickupLocationID *uuid.UUID
	ShippingAddress  *types.Address
}

// ValidateOrderInput is the dry-run variant: same shape, no side effects.
type ValidateOrderInput struct {
	Identity checkout.IdentitySnapshot
	Items    []CartItemInput
}

// Context is what the storefront needs to render the checkout page for the
// current identity.
type Context struct {
	Permission      enums.CheckoutPermission `json:"permission"`
	PaymentMethods  []enums.PaymentMethod    `json:"payment_methods"`
	ShippingMethods []enums.ShippingMethod   `json:"shipping_methods"`
	Limits          *checkout.OrderLimits    `json:"limits,omitempty"`
	PickupLocations []models.PickupLocation  `json:"pickup_locations"`
}
