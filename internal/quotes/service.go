package quotes

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/config"
	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
	"github.com/vertilift/vertilift-backend/pkg/pagination"
	"github.com/vertilift/vertilift-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OrderCreator turns an approved quote into an order row inside the caller's
// transaction.
type OrderCreator interface {
	CreateFromQuote(ctx context.Context, tx *gorm.DB, quote *models.Quote) (*models.Order, error)
}

// Service defines the quote lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	CustomerView(ctx context.Context, id uuid.UUID, customerID string) (*CustomerQuoteView, error)

	StartReview(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	Approve(ctx context.Context, input ApproveInput) (*models.Quote, error)
	Reject(ctx context.Context, input RejectInput) (*models.Quote, error)
	UpdatePriority(ctx context.Context, input UpdatePriorityInput) (*models.Quote, error)

	UpdateItemPricing(ctx context.Context, input UpdateItemPricingInput) (*models.Quote, error)
	SavePricing(ctx context.Context, id uuid.UUID) (*models.Quote, error)

	SendMessage(ctx context.Context, input SendMessageInput) (*models.QuoteMessage, error)
	ConvertToOrder(ctx context.Context, input ConvertInput) (*models.Order, error)

	// MarkConverted flips an approved quote to converted inside the caller's
	// transaction, after the caller has created the order row.
	MarkConverted(ctx context.Context, tx *gorm.DB, quote *models.Quote, orderID uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	orders OrderCreator
	cfg    config.QuotesConfig
	now    func() time.Time
}

// NewService builds the quote service with its required collaborators.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, orders OrderCreator, cfg config.QuotesConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: publisher,
		orders: orders,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// allowedTransitions is the closed status graph. Anything absent is a
// state-conflict.
var allowedTransitions = map[enums.QuoteStatus][]enums.QuoteStatus{
	enums.QuoteStatusPending:   {enums.QuoteStatusReviewing},
	enums.QuoteStatusReviewing: {enums.QuoteStatusApproved, enums.QuoteStatusRejected},
	enums.QuoteStatusApproved:  {enums.QuoteStatusConverted},
}

func transitionAllowed(from, to enums.QuoteStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func transitionError(from, to enums.QuoteStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move quote from %s to %s", from, to))
}

var errConcurrentUpdate = pkgerrors.New(pkgerrors.CodeConflict, "quote was modified concurrently")

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Quote, error) {
	if input.CustomerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if !input.UserType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote requires at least one item")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" || strings.TrimSpace(item.ProductSKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product name and sku required")
		}
		if err := pricing.ValidateQuantity(item.Quantity); err != nil {
			return nil, err
		}
	}

	quote := &models.Quote{
		QuoteNumber:   newQuoteNumber(s.now()),
		Status:        enums.QuoteStatusPending,
		Priority:      enums.QuotePriorityMedium,
		UserType:      input.UserType,
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
	}
	for _, item := range input.Items {
		quote.Items = append(quote.Items, models.QuoteItem{
			ProductName:      item.ProductName,
			ProductSKU:       item.ProductSKU,
			ProductThumbnail: item.ProductThumbnail,
			Quantity:         item.Quantity,
		})
	}

	var created *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		saved, err := repo.Create(ctx, quote)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
		}
		if strings.TrimSpace(input.Message) != "" {
			_, err = repo.AppendMessage(ctx, &models.QuoteMessage{
				QuoteID:    saved.ID,
				SenderType: enums.SenderTypeCustomer,
				SenderName: input.CustomerName,
				Message:    input.Message,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append quote message")
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

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	return s.findQuote(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority filter")
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	page, next := pagination.Page(rows, filter.Limit,
		func(q models.Quote) time.Time { return q.CreatedAt },
		func(q models.Quote) uuid.UUID { return q.ID },
	)
	return &ListResult{Quotes: page, NextCursor: next}, nil
}

// CustomerView returns the quote as the requesting customer may see it:
// ownership enforced, internal messages stripped.
func (s *service) CustomerView(ctx context.Context, id uuid.UUID, customerID string) (*CustomerQuoteView, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	quote, err := s.findQuote(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if quote.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}

	view := &CustomerQuoteView{
		ID:             quote.ID,
		QuoteNumber:    quote.QuoteNumber,
		Status:         quote.Status,
		Subtotal:       quote.Subtotal,
		DiscountTotal:  quote.DiscountTotal,
		TaxTotal:       quote.TaxTotal,
		EstimatedTotal: quote.EstimatedTotal,
		ValidUntil:     quote.ValidUntil,
		CreatedAt:      quote.CreatedAt,
	}
	for _, item := range quote.Items {
		view.Items = append(view.Items, CustomerQuoteItem{
			ID:                 item.ID,
			ProductName:        item.ProductName,
			ProductSKU:         item.ProductSKU,
			ProductThumbnail:   item.ProductThumbnail,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountPercentage: item.DiscountPercentage,
			TotalPrice:         item.TotalPrice,
		})
	}
	for _, message := range quote.Messages {
		if message.IsInternal {
			continue
		}
		view.Messages = append(view.Messages, CustomerQuoteMessage{
			ID:         message.ID,
			SenderType: message.SenderType,
			SenderName: message.SenderName,
			Message:    message.Message,
			CreatedAt:  message.CreatedAt,
		})
	}
	return view, nil
}

func (s *service) StartReview(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, id)
		if err != nil {
			return err
		}
		if !transitionAllowed(quote.Status, enums.QuoteStatusReviewing) {
			return transitionError(quote.Status, enums.QuoteStatusReviewing)
		}
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"status": enums.QuoteStatusReviewing,
		}); err != nil {
			return err
		}
		quote.Status = enums.QuoteStatusReviewing
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Approve(ctx context.Context, input ApproveInput) (*models.Quote, error) {
	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		if !transitionAllowed(quote.Status, enums.QuoteStatusApproved) {
			return transitionError(quote.Status, enums.QuoteStatusApproved)
		}

		lines := make([]pricing.LineInput, 0, len(quote.Items))
		for _, item := range quote.Items {
			if !item.UnitPrice.IsPositive() {
				return pkgerrors.New(pkgerrors.CodeValidation,
					"all items must have pricing before approval")
			}
			lines = append(lines, pricing.LineInput{
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
				DiscountPercentage: item.DiscountPercentage,
			})
		}
		totals := pricing.Compute(lines)
		if !totals.EstimatedTotal.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"quote total must be greater than zero")
		}

		validUntil := s.now().Add(s.cfg.ValidityDuration())
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"status":          enums.QuoteStatusApproved,
			"subtotal":        totals.Subtotal,
			"discount_total":  totals.DiscountTotal,
			"tax_total":       totals.TaxTotal,
			"estimated_total": totals.EstimatedTotal,
			"pricing_stale":   false,
			"valid_until":     validUntil,
		}); err != nil {
			return err
		}

		if strings.TrimSpace(input.Note) != "" {
			_, err = repo.AppendMessage(ctx, &models.QuoteMessage{
				QuoteID:    quote.ID,
				SenderType: enums.SenderTypeAdmin,
				SenderName: input.AdminName,
				Message:    input.Note,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append approval note")
			}
		}

		quote.Status = enums.QuoteStatusApproved
		quote.Subtotal = totals.Subtotal
		quote.DiscountTotal = totals.DiscountTotal
		quote.TaxTotal = totals.TaxTotal
		quote.EstimatedTotal = totals.EstimatedTotal
		quote.PricingStale = false
		quote.ValidUntil = &validUntil

		event := outbox.DomainEvent{
			EventType:     enums.EventQuoteApproved,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Actor:         &outbox.ActorRef{Name: input.AdminName, Role: "admin"},
			Data: QuoteApprovedEvent{
				QuoteID:        quote.ID,
				QuoteNumber:    quote.QuoteNumber,
				CustomerName:   quote.CustomerName,
				CustomerEmail:  quote.CustomerEmail,
				EstimatedTotal: quote.EstimatedTotal,
				ValidUntil:     validUntil,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit quote approved")
		}

		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Reject(ctx context.Context, input RejectInput) (*models.Quote, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		if !transitionAllowed(quote.Status, enums.QuoteStatusRejected) {
			return transitionError(quote.Status, enums.QuoteStatusRejected)
		}
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"status":           enums.QuoteStatusRejected,
			"rejection_reason": input.Reason,
		}); err != nil {
			return err
		}

		quote.Status = enums.QuoteStatusRejected
		quote.RejectionReason = &input.Reason

		event := outbox.DomainEvent{
			EventType:     enums.EventQuoteRejected,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Actor:         &outbox.ActorRef{Name: input.AdminName, Role: "admin"},
			Data: QuoteRejectedEvent{
				QuoteID:       quote.ID,
				QuoteNumber:   quote.QuoteNumber,
				CustomerName:  quote.CustomerName,
				CustomerEmail: quote.CustomerEmail,
				Reason:        input.Reason,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit quote rejected")
		}

		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdatePriority(ctx context.Context, input UpdatePriorityInput) (*models.Quote, error) {
	if !input.Priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		if quote.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot change priority of a %s quote", quote.Status))
		}
		if quote.Priority == input.Priority {
			updated = quote
			return nil
		}
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"priority": input.Priority,
		}); err != nil {
			return err
		}
		quote.Priority = input.Priority
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateItemPricing edits one pricing field on one item, recomputes that
// item's total and flags the quote's aggregates stale until SavePricing runs.
func (s *service) UpdateItemPricing(ctx context.Context, input UpdateItemPricingInput) (*models.Quote, error) {
	switch input.Field {
	case PricingFieldUnitPrice:
		if err := pricing.ValidateUnitPrice(input.Value); err != nil {
			return nil, err
		}
	case PricingFieldDiscountPercentage:
		if err := pricing.ValidateDiscountPercentage(input.Value); err != nil {
			return nil, err
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown pricing field %q", input.Field))
	}

	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		if quote.Status.IsTerminal() || quote.Status == enums.QuoteStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot edit pricing of a %s quote", quote.Status))
		}

		var item *models.QuoteItem
		for i := range quote.Items {
			if quote.Items[i].ID == input.ItemID {
				item = &quote.Items[i]
				break
			}
		}
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quote item not found")
		}

		switch input.Field {
		case PricingFieldUnitPrice:
			item.UnitPrice = input.Value
		case PricingFieldDiscountPercentage:
			item.DiscountPercentage = input.Value
		}
		item.TotalPrice = pricing.LineTotal(item.UnitPrice, item.Quantity, item.DiscountPercentage)

		if err := repo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote item")
		}
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"pricing_stale": true,
		}); err != nil {
			return err
		}
		quote.PricingStale = true
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SavePricing recomputes every item total and the quote aggregates in one
// transaction and clears the stale flag.
func (s *service) SavePricing(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, id)
		if err != nil {
			return err
		}
		if quote.Status.IsTerminal() || quote.Status == enums.QuoteStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot save pricing of a %s quote", quote.Status))
		}

		lines := make([]pricing.LineInput, 0, len(quote.Items))
		for i := range quote.Items {
			item := &quote.Items[i]
			item.TotalPrice = pricing.LineTotal(item.UnitPrice, item.Quantity, item.DiscountPercentage)
			lines = append(lines, pricing.LineInput{
				Quantity:           item.Quantity,
				UnitPrice:          item.UnitPrice,
				DiscountPercentage: item.DiscountPercentage,
			})
		}
		if err := repo.ReplaceItemTotals(ctx, quote.Items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save item totals")
		}

		totals := pricing.Compute(lines)
		if err := s.updateCAS(ctx, repo, quote, map[string]any{
			"subtotal":        totals.Subtotal,
			"discount_total":  totals.DiscountTotal,
			"tax_total":       totals.TaxTotal,
			"estimated_total": totals.EstimatedTotal,
			"pricing_stale":   false,
		}); err != nil {
			return err
		}

		quote.Subtotal = totals.Subtotal
		quote.DiscountTotal = totals.DiscountTotal
		quote.TaxTotal = totals.TaxTotal
		quote.EstimatedTotal = totals.EstimatedTotal
		quote.PricingStale = false
		updated = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) SendMessage(ctx context.Context, input SendMessageInput) (*models.QuoteMessage, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body required")
	}
	if !input.SenderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sender type")
	}
	if input.IsInternal && input.SenderType != enums.SenderTypeAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only admins can write internal notes")
	}

	if _, err := s.findQuote(ctx, s.repo, input.QuoteID); err != nil {
		return nil, err
	}

	message, err := s.repo.AppendMessage(ctx, &models.QuoteMessage{
		QuoteID:    input.QuoteID,
		SenderType: input.SenderType,
		SenderName: input.SenderName,
		Message:    input.Message,
		IsInternal: input.IsInternal,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append quote message")
	}
	return message, nil
}

func (s *service) ConvertToOrder(ctx context.Context, input ConvertInput) (*models.Order, error) {
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.findQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		if !transitionAllowed(quote.Status, enums.QuoteStatusConverted) {
			return transitionError(quote.Status, enums.QuoteStatusConverted)
		}
		if quote.UserType != enums.QuoteUserTypeVerified {
			return pkgerrors.New(pkgerrors.CodeForbidden,
				"only verified business accounts can convert quotes to orders")
		}
		if quote.ValidUntil != nil && quote.ValidUntil.Before(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote validity period has passed")
		}

		order, err := s.orders.CreateFromQuote(ctx, tx, quote)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order from quote")
		}

		if err := s.MarkConverted(ctx, tx, quote, order.ID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) MarkConverted(ctx context.Context, tx *gorm.DB, quote *models.Quote, orderID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	if !transitionAllowed(quote.Status, enums.QuoteStatusConverted) {
		return transitionError(quote.Status, enums.QuoteStatusConverted)
	}
	repo := s.repo.WithTx(tx)
	if err := s.updateCAS(ctx, repo, quote, map[string]any{
		"status":             enums.QuoteStatusConverted,
		"converted_order_id": orderID,
	}); err != nil {
		return err
	}
	quote.Status = enums.QuoteStatusConverted
	quote.ConvertedOrderID = &orderID
	return nil
}

func (s *service) findQuote(ctx context.Context, repo Repository, id uuid.UUID) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	quote, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func (s *service) updateCAS(ctx context.Context, repo Repository, quote *models.Quote, updates map[string]any) error {
	ok, err := repo.UpdateCAS(ctx, quote.ID, quote.LockVersion, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
	}
	if !ok {
		return errConcurrentUpdate
	}
	quote.LockVersion++
	return nil
}

// newQuoteNumber yields a human-referencable identifier, e.g. VLQ-20260901-A3F2C1.
func newQuoteNumber(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("VLQ-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
