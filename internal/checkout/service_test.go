package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/checkout"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/types"
)

type stubOrdersService struct {
	created *models.Order
	err     error
}

func (s *stubOrdersService) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return order, nil
}

func (s *stubOrdersService) CreateFromQuote(ctx context.Context, tx *gorm.DB, quote *models.Quote) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersService) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	panic("not implemented")
}

type stubQuoteConverter struct {
	quote     *models.Quote
	converted *uuid.UUID
}

func (s *stubQuoteConverter) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.quote == nil || s.quote.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return s.quote, nil
}

func (s *stubQuoteConverter) MarkConverted(ctx context.Context, tx *gorm.DB, quote *models.Quote, orderID uuid.UUID) error {
	s.converted = &orderID
	quote.Status = enums.QuoteStatusConverted
	return nil
}

type stubPickupRepo struct {
	locations []models.PickupLocation
	err       error
}

func (s *stubPickupRepo) ListActive(ctx context.Context) ([]models.PickupLocation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.locations, nil
}

func (s *stubPickupRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error) {
	for i := range s.locations {
		if s.locations[i].ID == id {
			return &s.locations[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func testLimits() checkout.OrderLimits {
	return checkout.OrderLimits{
		MaxOrderValue:      decimal.NewFromInt(50000),
		MaxQuantityPerItem: 10,
	}
}

func newTestService(orders *stubOrdersService, quotes *stubQuoteConverter, pickups *stubPickupRepo) Service {
	svc, err := NewService(stubTxRunner{}, orders, quotes, pickups, testLimits())
	if err != nil {
		panic(err)
	}
	return svc
}

func verifiedIdentity() checkout.IdentitySnapshot {
	return checkout.IdentitySnapshot{
		IsSignedIn:            true,
		BusinessProfileExists: true,
		VerificationStatus:    enums.VerificationStatusVerified,
	}
}

func individualIdentity() checkout.IdentitySnapshot {
	return checkout.IdentitySnapshot{IsSignedIn: true}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, typed.Code(), err)
	}
}

func cartOrderInput() PlaceOrderInput {
	return PlaceOrderInput{
		Identity:       verifiedIdentity(),
		CustomerID:     "cus_1",
		CustomerName:   "Meera Pillai",
		CustomerEmail:  "meera@example.com",
		Source:         enums.CheckoutSourceCart,
		PaymentMethod:  enums.PaymentMethodCOD,
		ShippingMethod: enums.ShippingMethodDoorstep,
		ShippingAddress: &types.Address{
			Line1:      "14 Industrial Estate",
			City:       "Coimbatore",
			State:      "TN",
			PostalCode: "641004",
			Country:    "IN",
		},
		Items: []CartItemInput{
			{ProductName: "Guide rail 5m", ProductSKU: "GR-500", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
	}
}

func TestResolveContextAnonymous(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	result, err := svc.ResolveContext(context.Background(), checkout.IdentitySnapshot{})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Permission != enums.CheckoutPermissionBlockedSignin {
		t.Fatalf("expected blocked_signin got %s", result.Permission)
	}
	if len(result.PaymentMethods) != 0 || len(result.ShippingMethods) != 0 {
		t.Fatal("blocked tiers must not advertise checkout options")
	}
	if result.Limits != nil {
		t.Fatal("limits only apply to the individual tier")
	}
}

func TestResolveContextIndividualCarriesLimits(t *testing.T) {
	pickups := &stubPickupRepo{locations: []models.PickupLocation{{ID: uuid.New(), Name: "Chennai depot", Active: true}}}
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, pickups)

	result, err := svc.ResolveContext(context.Background(), individualIdentity())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Permission != enums.CheckoutPermissionIndividual {
		t.Fatalf("expected individual_checkout got %s", result.Permission)
	}
	if result.Limits == nil || !result.Limits.MaxOrderValue.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected limits surfaced got %+v", result.Limits)
	}
	if len(result.PickupLocations) != 1 {
		t.Fatalf("expected pickup locations got %d", len(result.PickupLocations))
	}
}

func TestResolveContextUnverifiedBusinessBlocked(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	result, err := svc.ResolveContext(context.Background(), checkout.IdentitySnapshot{
		IsSignedIn:            true,
		BusinessProfileExists: true,
		VerificationStatus:    enums.VerificationStatusUnverified,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.Permission != enums.CheckoutPermissionBlockedVerify {
		t.Fatalf("expected blocked_verify got %s", result.Permission)
	}
}

func TestValidateOrderBlockedSignin(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	_, err := svc.ValidateOrder(context.Background(), ValidateOrderInput{})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestValidateOrderReportsViolations(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	result, err := svc.ValidateOrder(context.Background(), ValidateOrderInput{
		Identity: individualIdentity(),
		Items: []CartItemInput{
			{ProductName: "Counterweight block", Quantity: 11, UnitPrice: decimal.NewFromInt(100000)},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.CanProceed {
		t.Fatal("expected violations to block the order")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("expected value and quantity violations got %v", result.Violations)
	}
}

func TestPlaceOrderBlockedVerify(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	input := cartOrderInput()
	input.Identity = checkout.IdentitySnapshot{
		IsSignedIn:            true,
		BusinessProfileExists: true,
		VerificationStatus:    enums.VerificationStatusUnverified,
	}
	_, err := svc.PlaceOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestPlaceOrderDoorstepRequiresCompleteAddress(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	input := cartOrderInput()
	input.ShippingAddress = &types.Address{Line1: "14 Industrial Estate"}
	_, err := svc.PlaceOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)

	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected missing field details got %v", typed.Details())
	}
	if _, ok := details["missing_fields"]; !ok {
		t.Fatal("expected missing_fields detail")
	}
}

func TestPlaceOrderPickupNoLocationsAvailable(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	input := cartOrderInput()
	input.ShippingMethod = enums.ShippingMethodPickup
	input.ShippingAddress = nil
	_, err := svc.PlaceOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestPlaceOrderPickupRejectsInactiveLocation(t *testing.T) {
	pickups := &stubPickupRepo{locations: []models.PickupLocation{{ID: uuid.New(), Name: "Chennai depot", Active: true}}}
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, pickups)

	other := uuid.New()
	input := cartOrderInput()
	input.ShippingMethod = enums.ShippingMethodPickup
	input.ShippingAddress = nil
	input.PickupLocationID = &other
	_, err := svc.PlaceOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestPlaceOrderCartComputesTotals(t *testing.T) {
	orders := &stubOrdersService{}
	svc := newTestService(orders, &stubQuoteConverter{}, &stubPickupRepo{})

	created, err := svc.PlaceOrder(context.Background(), cartOrderInput())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	// 2 x 100, 18% GST
	if !created.Subtotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected subtotal %s", created.Subtotal)
	}
	if !created.Total.Equal(decimal.NewFromInt(236)) {
		t.Fatalf("unexpected total %s", created.Total)
	}
	if orders.created == nil {
		t.Fatal("expected order persisted")
	}
}

func TestPlaceOrderIndividualLimitExceeded(t *testing.T) {
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{}, &stubPickupRepo{})

	input := cartOrderInput()
	input.Identity = individualIdentity()
	input.Items = []CartItemInput{
		{ProductName: "Machine room kit", ProductSKU: "MR-900", Quantity: 1, UnitPrice: decimal.NewFromInt(60000)},
	}
	_, err := svc.PlaceOrder(context.Background(), input)
	assertCode(t, err, pkgerrors.CodeValidation)

	typed := pkgerrors.As(err)
	result, ok := typed.Details().(checkout.LimitResult)
	if !ok {
		t.Fatalf("expected limit result details got %v", typed.Details())
	}
	if result.CanProceed || len(result.Violations) == 0 {
		t.Fatalf("expected violations got %+v", result)
	}
}

func placeableQuote(customerID string) *models.Quote {
	future := time.Now().Add(24 * time.Hour)
	return &models.Quote{
		ID:             uuid.New(),
		QuoteNumber:    "VLQ-20260901-D4E5F6",
		Status:         enums.QuoteStatusApproved,
		UserType:       enums.QuoteUserTypeVerified,
		CustomerID:     customerID,
		CustomerName:   "Meera Pillai",
		CustomerEmail:  "meera@example.com",
		Subtotal:       decimal.NewFromInt(2000),
		DiscountTotal:  decimal.NewFromInt(200),
		TaxTotal:       decimal.NewFromInt(324),
		EstimatedTotal: decimal.NewFromInt(2124),
		ValidUntil:     &future,
		Items: []models.QuoteItem{
			{
				ID:          uuid.New(),
				ProductName: "Traction machine 6.3kW",
				ProductSKU:  "TM-6300",
				Quantity:    2,
				UnitPrice:   decimal.NewFromInt(1000),
				TotalPrice:  decimal.NewFromInt(1800),
			},
		},
	}
}

func quoteOrderInput(quote *models.Quote) PlaceOrderInput {
	quoteID := quote.ID
	input := cartOrderInput()
	input.Source = enums.CheckoutSourceQuote
	input.QuoteID = &quoteID
	input.Items = nil
	return input
}

func TestPlaceOrderQuoteUsesLockedSnapshot(t *testing.T) {
	quote := placeableQuote("cus_1")
	orders := &stubOrdersService{}
	converter := &stubQuoteConverter{quote: quote}
	svc := newTestService(orders, converter, &stubPickupRepo{})

	created, err := svc.PlaceOrder(context.Background(), quoteOrderInput(quote))
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !created.Total.Equal(decimal.NewFromInt(2124)) {
		t.Fatalf("expected quote snapshot total got %s", created.Total)
	}
	if created.QuoteID == nil || *created.QuoteID != quote.ID {
		t.Fatalf("expected quote link got %v", created.QuoteID)
	}
	if converter.converted == nil || *converter.converted != created.ID {
		t.Fatal("expected quote marked converted in the placement transaction")
	}
}

func TestPlaceOrderQuoteOwnershipEnforced(t *testing.T) {
	quote := placeableQuote("someone-else")
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{quote: quote}, &stubPickupRepo{})

	_, err := svc.PlaceOrder(context.Background(), quoteOrderInput(quote))
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestPlaceOrderQuoteMustBeApproved(t *testing.T) {
	quote := placeableQuote("cus_1")
	quote.Status = enums.QuoteStatusReviewing
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{quote: quote}, &stubPickupRepo{})

	_, err := svc.PlaceOrder(context.Background(), quoteOrderInput(quote))
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestPlaceOrderQuoteRequiresVerifiedAccount(t *testing.T) {
	quote := placeableQuote("cus_1")
	quote.UserType = enums.QuoteUserTypeBusiness
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{quote: quote}, &stubPickupRepo{})

	_, err := svc.PlaceOrder(context.Background(), quoteOrderInput(quote))
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestPlaceOrderQuoteExpiredValidity(t *testing.T) {
	quote := placeableQuote("cus_1")
	past := time.Now().Add(-time.Hour)
	quote.ValidUntil = &past
	svc := newTestService(&stubOrdersService{}, &stubQuoteConverter{quote: quote}, &stubPickupRepo{})

	_, err := svc.PlaceOrder(context.Background(), quoteOrderInput(quote))
	assertCode(t, err, pkgerrors.CodeStateConflict)
}
