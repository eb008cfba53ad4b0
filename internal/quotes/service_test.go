package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/config"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
)

type stubQuotesRepo struct {
	quote       *models.Quote
	casOK       bool
	casUpdates  map[string]any
	updatedItem *models.QuoteItem
	savedItems  []models.QuoteItem
	messages    []models.QuoteMessage
	created     *models.Quote
	expired     []models.Quote
	stamped     []uuid.UUID
}

func newStubQuotesRepo(quote *models.Quote) *stubQuotesRepo {
	return &stubQuotesRepo{quote: quote, casOK: true}
}

func (s *stubQuotesRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubQuotesRepo) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	s.created = quote
	return quote, nil
}

func (s *stubQuotesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.quote == nil || s.quote.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.quote, nil
}

func (s *stubQuotesRepo) List(ctx context.Context, filter ListFilter) ([]models.Quote, error) {
	if s.quote == nil {
		return nil, nil
	}
	return []models.Quote{*s.quote}, nil
}

func (s *stubQuotesRepo) UpdateCAS(ctx context.Context, id uuid.UUID, lockVersion int, updates map[string]any) (bool, error) {
	if !s.casOK {
		return false, nil
	}
	s.casUpdates = updates
	return true, nil
}

func (s *stubQuotesRepo) UpdateItem(ctx context.Context, item *models.QuoteItem) error {
	s.updatedItem = item
	return nil
}

func (s *stubQuotesRepo) ReplaceItemTotals(ctx context.Context, items []models.QuoteItem) error {
	s.savedItems = items
	return nil
}

func (s *stubQuotesRepo) AppendMessage(ctx context.Context, message *models.QuoteMessage) (*models.QuoteMessage, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	s.messages = append(s.messages, *message)
	return message, nil
}

func (s *stubQuotesRepo) FindExpiredApproved(ctx context.Context, asOf time.Time, limit int) ([]models.Quote, error) {
	return s.expired, nil
}

func (s *stubQuotesRepo) StampExpiredNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.stamped = append(s.stamped, id)
	return nil
}

type stubPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubOrderCreator struct {
	order *models.Order
	err   error
	quote *models.Quote
}

func (s *stubOrderCreator) CreateFromQuote(ctx context.Context, tx *gorm.DB, quote *models.Quote) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.quote = quote
	if s.order == nil {
		s.order = &models.Order{ID: uuid.New(), CustomerID: quote.CustomerID}
	}
	return s.order, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestService(repo Repository, publisher *stubPublisher, orders OrderCreator) *service {
	svc, err := NewService(repo, stubTxRunner{}, publisher, orders, config.QuotesConfig{ValidityDays: 30})
	if err != nil {
		panic(err)
	}
	return svc.(*service)
}

func reviewingQuote() *models.Quote {
	return &models.Quote{
		ID:            uuid.New(),
		QuoteNumber:   "VLQ-20260901-A1B2C3",
		Status:        enums.QuoteStatusReviewing,
		Priority:      enums.QuotePriorityMedium,
		UserType:      enums.QuoteUserTypeVerified,
		CustomerID:    "cus_123",
		CustomerName:  "Meera Pillai",
		CustomerEmail: "meera@example.com",
		Items: []models.QuoteItem{
			{
				ID:                 uuid.New(),
				ProductName:        "Traction machine 6.3kW",
				ProductSKU:         "TM-6300",
				Quantity:           2,
				UnitPrice:          decimal.NewFromInt(1000),
				DiscountPercentage: decimal.NewFromInt(10),
			},
		},
	}
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

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService(newStubQuotesRepo(nil), &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.Create(context.Background(), CreateInput{
		CustomerEmail: "a@b.com",
		UserType:      enums.QuoteUserTypeGuest,
		Items:         []CreateItemInput{{ProductName: "x", ProductSKU: "y", Quantity: 1}},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{
		CustomerID:    "cus_1",
		CustomerEmail: "a@b.com",
		UserType:      enums.QuoteUserTypeGuest,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{
		CustomerID:    "cus_1",
		CustomerEmail: "a@b.com",
		UserType:      enums.QuoteUserTypeGuest,
		Items:         []CreateItemInput{{ProductName: "x", ProductSKU: "y", Quantity: 0}},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateStartsPendingWithMessage(t *testing.T) {
	repo := newStubQuotesRepo(nil)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	quote, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    "cus_1",
		CustomerName:  "Meera Pillai",
		CustomerEmail: "meera@example.com",
		UserType:      enums.QuoteUserTypeBusiness,
		Items: []CreateItemInput{
			{ProductName: "Door operator", ProductSKU: "DO-200", Quantity: 4},
		},
		Message: "Need these before October",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if quote.Status != enums.QuoteStatusPending {
		t.Fatalf("expected pending status got %s", quote.Status)
	}
	if quote.Priority != enums.QuotePriorityMedium {
		t.Fatalf("expected medium priority got %s", quote.Priority)
	}
	if quote.QuoteNumber == "" {
		t.Fatal("expected quote number to be assigned")
	}
	if len(repo.messages) != 1 || repo.messages[0].SenderType != enums.SenderTypeCustomer {
		t.Fatalf("expected one customer message got %+v", repo.messages)
	}
}

func TestStartReviewTransitionsPending(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusPending
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	updated, err := svc.StartReview(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.QuoteStatusReviewing {
		t.Fatalf("expected reviewing got %s", updated.Status)
	}
	if updated.LockVersion != 1 {
		t.Fatalf("expected lock version bump got %d", updated.LockVersion)
	}
}

func TestStartReviewRejectsNonPending(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.StartReview(context.Background(), quote.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApproveRequiresItemPricing(t *testing.T) {
	quote := reviewingQuote()
	quote.Items[0].UnitPrice = decimal.Zero
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.Approve(context.Background(), ApproveInput{QuoteID: quote.ID, AdminName: "Asha"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestApproveComputesTotalsAndEmits(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	publisher := &stubPublisher{}
	svc := newTestService(repo, publisher, &stubOrderCreator{})

	updated, err := svc.Approve(context.Background(), ApproveInput{
		QuoteID:   quote.ID,
		AdminName: "Asha",
		Note:      "Bulk discount applied",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.QuoteStatusApproved {
		t.Fatalf("expected approved got %s", updated.Status)
	}

	// 2 x 1000 at 10% off, 18% GST on the discounted base.
	if !updated.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected subtotal %s", updated.Subtotal)
	}
	if !updated.DiscountTotal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected discount %s", updated.DiscountTotal)
	}
	if !updated.TaxTotal.Equal(decimal.NewFromInt(324)) {
		t.Fatalf("unexpected tax %s", updated.TaxTotal)
	}
	if !updated.EstimatedTotal.Equal(decimal.NewFromInt(2124)) {
		t.Fatalf("unexpected total %s", updated.EstimatedTotal)
	}
	if updated.PricingStale {
		t.Fatal("expected pricing stale cleared")
	}
	if updated.ValidUntil == nil || !updated.ValidUntil.After(time.Now()) {
		t.Fatalf("expected future validity window got %v", updated.ValidUntil)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one event got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventQuoteApproved {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	if event.AggregateID != quote.ID {
		t.Fatalf("unexpected aggregate id %s", event.AggregateID)
	}
	if len(repo.messages) != 1 || repo.messages[0].IsInternal {
		t.Fatalf("expected customer-visible approval note got %+v", repo.messages)
	}
}

func TestApproveRejectsPendingQuote(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusPending
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.Approve(context.Background(), ApproveInput{QuoteID: quote.ID, AdminName: "Asha"})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRejectRequiresReason(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.Reject(context.Background(), RejectInput{QuoteID: quote.ID, AdminName: "Asha"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRejectEmitsEvent(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	publisher := &stubPublisher{}
	svc := newTestService(repo, publisher, &stubOrderCreator{})

	updated, err := svc.Reject(context.Background(), RejectInput{
		QuoteID:   quote.ID,
		AdminName: "Asha",
		Reason:    "Out of production",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.QuoteStatusRejected {
		t.Fatalf("expected rejected got %s", updated.Status)
	}
	if updated.RejectionReason == nil || *updated.RejectionReason != "Out of production" {
		t.Fatalf("expected rejection reason got %v", updated.RejectionReason)
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventQuoteRejected {
		t.Fatalf("expected quote.rejected event got %+v", publisher.events)
	}
}

func TestConcurrentUpdateConflicts(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	repo.casOK = false
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.Reject(context.Background(), RejectInput{
		QuoteID:   quote.ID,
		AdminName: "Asha",
		Reason:    "stale",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdatePriorityBlockedOnTerminal(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusRejected
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.UpdatePriority(context.Background(), UpdatePriorityInput{
		QuoteID:  quote.ID,
		Priority: enums.QuotePriorityHigh,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestUpdatePrioritySameValueNoCAS(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	updated, err := svc.UpdatePriority(context.Background(), UpdatePriorityInput{
		QuoteID:  quote.ID,
		Priority: enums.QuotePriorityMedium,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.LockVersion != 0 {
		t.Fatalf("expected no lock bump on no-op got %d", updated.LockVersion)
	}
}

func TestUpdateItemPricingFlagsStale(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	updated, err := svc.UpdateItemPricing(context.Background(), UpdateItemPricingInput{
		QuoteID: quote.ID,
		ItemID:  quote.Items[0].ID,
		Field:   PricingFieldUnitPrice,
		Value:   decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !updated.PricingStale {
		t.Fatal("expected pricing marked stale")
	}
	if repo.updatedItem == nil {
		t.Fatal("expected item persisted")
	}
	// 1200 x 2 at 10% off
	if !repo.updatedItem.TotalPrice.Equal(decimal.NewFromInt(2160)) {
		t.Fatalf("unexpected line total %s", repo.updatedItem.TotalPrice)
	}
}

func TestUpdateItemPricingValidatesDiscountRange(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.UpdateItemPricing(context.Background(), UpdateItemPricingInput{
		QuoteID: quote.ID,
		ItemID:  quote.Items[0].ID,
		Field:   PricingFieldDiscountPercentage,
		Value:   decimal.NewFromInt(101),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateItemPricingBlockedAfterApproval(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusApproved
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.UpdateItemPricing(context.Background(), UpdateItemPricingInput{
		QuoteID: quote.ID,
		ItemID:  quote.Items[0].ID,
		Field:   PricingFieldUnitPrice,
		Value:   decimal.NewFromInt(900),
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSavePricingRecomputesAggregates(t *testing.T) {
	quote := reviewingQuote()
	quote.PricingStale = true
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	updated, err := svc.SavePricing(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.PricingStale {
		t.Fatal("expected stale flag cleared")
	}
	if !updated.EstimatedTotal.Equal(decimal.NewFromInt(2124)) {
		t.Fatalf("unexpected total %s", updated.EstimatedTotal)
	}
	if len(repo.savedItems) != 1 {
		t.Fatalf("expected item totals saved got %d", len(repo.savedItems))
	}
	if !repo.savedItems[0].TotalPrice.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("unexpected item total %s", repo.savedItems[0].TotalPrice)
	}
}

func TestSendMessageInternalRequiresAdmin(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.SendMessage(context.Background(), SendMessageInput{
		QuoteID:    quote.ID,
		SenderType: enums.SenderTypeCustomer,
		SenderName: "Meera Pillai",
		Message:    "note",
		IsInternal: true,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestConvertRequiresApprovedStatus(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.ConvertToOrder(context.Background(), ConvertInput{QuoteID: quote.ID})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestConvertRequiresVerifiedAccount(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusApproved
	quote.UserType = enums.QuoteUserTypeBusiness
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.ConvertToOrder(context.Background(), ConvertInput{QuoteID: quote.ID})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestConvertRejectsExpiredValidity(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusApproved
	past := time.Now().Add(-time.Hour)
	quote.ValidUntil = &past
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.ConvertToOrder(context.Background(), ConvertInput{QuoteID: quote.ID})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestConvertCreatesOrderAndMarksQuote(t *testing.T) {
	quote := reviewingQuote()
	quote.Status = enums.QuoteStatusApproved
	future := time.Now().Add(24 * time.Hour)
	quote.ValidUntil = &future
	repo := newStubQuotesRepo(quote)
	creator := &stubOrderCreator{}
	svc := newTestService(repo, &stubPublisher{}, creator)

	order, err := svc.ConvertToOrder(context.Background(), ConvertInput{QuoteID: quote.ID, AdminName: "Asha"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order == nil || order.ID == uuid.Nil {
		t.Fatal("expected created order")
	}
	if quote.Status != enums.QuoteStatusConverted {
		t.Fatalf("expected converted got %s", quote.Status)
	}
	if quote.ConvertedOrderID == nil || *quote.ConvertedOrderID != order.ID {
		t.Fatalf("expected converted order link got %v", quote.ConvertedOrderID)
	}
	if creator.quote == nil || creator.quote.ID != quote.ID {
		t.Fatal("expected order built from the quote snapshot")
	}
}

func TestCustomerViewEnforcesOwnership(t *testing.T) {
	quote := reviewingQuote()
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	_, err := svc.CustomerView(context.Background(), quote.ID, "someone-else")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCustomerViewStripsInternalMessages(t *testing.T) {
	quote := reviewingQuote()
	quote.Messages = []models.QuoteMessage{
		{ID: uuid.New(), QuoteID: quote.ID, SenderType: enums.SenderTypeAdmin, SenderName: "Asha", Message: "margin is thin", IsInternal: true},
		{ID: uuid.New(), QuoteID: quote.ID, SenderType: enums.SenderTypeAdmin, SenderName: "Asha", Message: "pricing updated"},
	}
	repo := newStubQuotesRepo(quote)
	svc := newTestService(repo, &stubPublisher{}, &stubOrderCreator{})

	view, err := svc.CustomerView(context.Background(), quote.ID, quote.CustomerID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(view.Messages) != 1 || view.Messages[0].Message != "pricing updated" {
		t.Fatalf("expected internal messages stripped got %+v", view.Messages)
	}
}
