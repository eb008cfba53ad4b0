package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/api/middleware"
	"github.com/vertilift/vertilift-backend/api/responses"
	"github.com/vertilift/vertilift-backend/api/validators"
	checkoutsvc "github.com/vertilift/vertilift-backend/internal/checkout"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/logger"
	"github.com/vertilift/vertilift-backend/pkg/types"
)

// CheckoutContext resolves the permission tier and available options for the
// current identity. Works for anonymous requests too; they land on
// blocked_signin.
func CheckoutContext(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.ResolveContext(r.Context(), middleware.SnapshotFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type checkoutItem struct {
	ProductName string          `json:"product_name" validate:"required"`
	ProductSKU  string          `json:"product_sku" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type validateOrderRequest struct {
	Items []checkoutItem `json:"items" validate:"required,min=1,dive"`
}

// ValidateOrder dry-runs the individual tier limits for a candidate cart.
func ValidateOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body validateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := checkoutsvc.ValidateOrderInput{
			Identity: middleware.SnapshotFromContext(r.Context()),
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, checkoutsvc.CartItemInput{
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}
		result, err := svc.ValidateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type placeOrderRequest struct {
	Source           string         `json:"source" validate:"required,oneof=cart quote"`
	QuoteID          *uuid.UUID     `json:"quote_id"`
	Items            []checkoutItem `json:"items" validate:"dive"`
	CustomerName     string         `json:"customer_name" validate:"required"`
	CustomerEmail    string         `json:"customer_email" validate:"required,email"`
	PaymentMethod    string         `json:"payment_method" validate:"required"`
	ShippingMethod   string         `json:"shipping_method" validate:"required"`
	PickupLocationID *uuid.UUID     `json:"pickup_location_id"`
	ShippingAddress  *types.Address `json:"shipping_address"`
}

// PlaceOrder runs the full placement precondition chain and records the order.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.IdentityFromContext(r.Context())
		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := ""
		if claims != nil {
			customerID = claims.Subject
		}
		input := checkoutsvc.PlaceOrderInput{
			Identity:         middleware.SnapshotFromContext(r.Context()),
			CustomerID:       customerID,
			CustomerName:     body.CustomerName,
			CustomerEmail:    body.CustomerEmail,
			Source:           enums.CheckoutSource(body.Source),
			QuoteID:          body.QuoteID,
			PaymentMethod:    enums.PaymentMethod(body.PaymentMethod),
			ShippingMethod:   enums.ShippingMethod(body.ShippingMethod),
			PickupLocationID: body.PickupLocationID,
			ShippingAddress:  body.ShippingAddress,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, checkoutsvc.CartItemInput{
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListPickupLocations serves the active stores for order collection.
func ListPickupLocations(repo checkoutsvc.PickupLocationRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := repo.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup locations"))
			return
		}
		responses.WriteSuccess(w, locations)
	}
}
