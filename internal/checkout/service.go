package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/internal/orders"
	"github.com/vertilift/vertilift-backend/pkg/checkout"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// quoteConverter is the slice of the quotes service checkout needs for
// quote-sourced placement.
type quoteConverter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	MarkConverted(ctx context.Context, tx *gorm.DB, quote *models.Quote, orderID uuid.UUID) error
}

// Service resolves checkout eligibility and places orders.
type Service interface {
	// ResolveContext returns the permission tier and the options available to
	// the identity, for rendering the checkout page.
	ResolveContext(ctx context.Context, identity checkout.IdentitySnapshot) (*Context, error)
	// ValidateOrder dry-runs the individual tier limits against a candidate
	// cart. Violations are data, not errors.
	ValidateOrder(ctx context.Context, input ValidateOrderInput) (checkout.LimitResult, error)
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	tx      txRunner
	orders  orders.Service
	quotes  quoteConverter
	pickups PickupLocationRepository
	limits  checkout.OrderLimits
	now     func() time.Time
}

// NewService builds the checkout service.
func NewService(tx txRunner, orderSvc orders.Service, quotes quoteConverter, pickups PickupLocationRepository, limits checkout.OrderLimits) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote converter required")
	}
	if pickups == nil {
		return nil, fmt.Errorf("pickup location repository required")
	}
	return &service{
		tx:      tx,
		orders:  orderSvc,
		quotes:  quotes,
		pickups: pickups,
		limits:  limits,
		now:     time.Now,
	}, nil
}

func (s *service) ResolveContext(ctx context.Context, identity checkout.IdentitySnapshot) (*Context, error) {
	permission := checkout.ResolvePermission(identity)

	result := &Context{
		Permission:      permission,
		PaymentMethods:  checkout.PaymentMethodsFor(permission),
		ShippingMethods: checkout.ShippingMethodsFor(permission),
	}
	if permission == enums.CheckoutPermissionIndividual {
		limits := s.limits
		result.Limits = &limits
	}
	if permission.CanPlaceOrder() {
		locations, err := s.pickups.ListActive(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup locations")
		}
		result.PickupLocations = locations
	}
	return result, nil
}

func (s *service) ValidateOrder(ctx context.Context, input ValidateOrderInput) (checkout.LimitResult, error) {
	permission := checkout.ResolvePermission(input.Identity)
	if !permission.CanPlaceOrder() {
		return checkout.LimitResult{}, placementBlockedError(permission)
	}

	lines := make([]pricing.LineInput, 0, len(input.Items))
	limitItems := make([]checkout.LimitItem, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, pricing.LineInput{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
		limitItems = append(limitItems, checkout.LimitItem{ProductName: item.ProductName, Quantity: item.Quantity})
	}
	totals := pricing.Compute(lines)

	return checkout.ValidateIndividualOrder(permission, limitItems, totals.EstimatedTotal, s.limits), nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	permission := checkout.ResolvePermission(input.Identity)
	if !permission.CanPlaceOrder() {
		return nil, placementBlockedError(permission)
	}
	if input.CustomerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is not available")
	}
	if !input.ShippingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method required")
	}

	order := &models.Order{
		Source:         input.Source,
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		ShippingMethod: input.ShippingMethod,
		PaymentMethod:  input.PaymentMethod,
	}

	if err := s.applyShipping(ctx, order, input); err != nil {
		return nil, err
	}

	var quote *models.Quote
	switch input.Source {
	case enums.CheckoutSourceCart:
		if len(input.Items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
		}
		lines := make([]pricing.LineInput, 0, len(input.Items))
		for _, item := range input.Items {
			if err := pricing.ValidateQuantity(item.Quantity); err != nil {
				return nil, err
			}
			if err := pricing.ValidateUnitPrice(item.UnitPrice); err != nil {
				return nil, err
			}
			lines = append(lines, pricing.LineInput{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
			order.Items = append(order.Items, models.OrderItem{
				ProductName: item.ProductName,
				ProductSKU:  item.ProductSKU,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  pricing.LineTotal(item.UnitPrice, item.Quantity, decimal.Zero),
			})
		}
		totals := pricing.Compute(lines)
		order.Subtotal = totals.Subtotal
		order.DiscountTotal = totals.DiscountTotal
		order.TaxTotal = totals.TaxTotal
		order.Total = totals.EstimatedTotal

	case enums.CheckoutSourceQuote:
		var err error
		quote, err = s.loadPlaceableQuote(ctx, input)
		if err != nil {
			return nil, err
		}
		quoteID := quote.ID
		order.QuoteID = &quoteID
		// Quote-sourced orders use the locked pricing snapshot, never a
		// recompute.
		order.Subtotal = quote.Subtotal
		order.DiscountTotal = quote.DiscountTotal
		order.TaxTotal = quote.TaxTotal
		order.Total = quote.EstimatedTotal
		for _, item := range quote.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductName:        item.ProductName,
				ProductSKU:         item.ProductSKU,
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
				DiscountPercentage: item.DiscountPercentage,
				TotalPrice:         item.TotalPrice,
			})
		}

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout source")
	}

	limitItems := make([]checkout.LimitItem, 0, len(order.Items))
	for _, item := range order.Items {
		limitItems = append(limitItems, checkout.LimitItem{ProductName: item.ProductName, Quantity: item.Quantity})
	}
	limitResult := checkout.ValidateIndividualOrder(permission, limitItems, order.Total, s.limits)
	if !limitResult.CanProceed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"order exceeds individual checkout limits").WithDetails(limitResult)
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		saved, err := s.orders.Create(ctx, tx, order)
		if err != nil {
			return err
		}
		if quote != nil {
			if err := s.quotes.MarkConverted(ctx, tx, quote, saved.ID); err != nil {
				return err
			}
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) applyShipping(ctx context.Context, order *models.Order, input PlaceOrderInput) error {
	switch input.ShippingMethod {
	case enums.ShippingMethodDoorstep:
		if input.ShippingAddress == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping address required for doorstep delivery")
		}
		if !input.ShippingAddress.IsComplete() {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
				WithDetails(map[string]any{"missing_fields": input.ShippingAddress.MissingFields()})
		}
		order.ShippingAddress = input.ShippingAddress

	case enums.ShippingMethodPickup:
		active, err := s.pickups.ListActive(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup locations")
		}
		if len(active) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no pickup locations available")
		}
		if input.PickupLocationID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "pickup location required")
		}
		location, err := s.findActiveLocation(active, *input.PickupLocationID)
		if err != nil {
			return err
		}
		locationID := location.ID
		order.PickupLocationID = &locationID
	}
	return nil
}

func (s *service) findActiveLocation(active []models.PickupLocation, id uuid.UUID) (*models.PickupLocation, error) {
	for i := range active {
		if active[i].ID == id {
			return &active[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected pickup location is not available")
}

func (s *service) loadPlaceableQuote(ctx context.Context, input PlaceOrderInput) (*models.Quote, error) {
	if input.QuoteID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required for quote checkout")
	}
	quote, err := s.quotes.Get(ctx, *input.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	if quote.Status != enums.QuoteStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quote is %s; only approved quotes can be placed", quote.Status))
	}
	if quote.UserType != enums.QuoteUserTypeVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			"only verified business accounts can place quote orders")
	}
	if quote.ValidUntil != nil && quote.ValidUntil.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote validity period has passed")
	}
	return quote, nil
}

func placementBlockedError(permission enums.CheckoutPermission) error {
	switch permission {
	case enums.CheckoutPermissionBlockedSignin:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to continue to checkout")
	case enums.CheckoutPermissionBlockedVerify:
		return pkgerrors.New(pkgerrors.CodeForbidden, "business verification required before checkout")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "checkout is not available for this account")
	}
}
