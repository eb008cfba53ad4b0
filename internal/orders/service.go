package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	pkgerrors "github.com/vertilift/vertilift-backend/pkg/errors"
	"github.com/vertilift/vertilift-backend/pkg/outbox"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OrderPlacedEvent is the outbox payload recorded when an order is created.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID            `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	Source        enums.CheckoutSource `json:"source"`
	QuoteID       *uuid.UUID           `json:"quote_id,omitempty"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	Total         decimal.Decimal      `json:"total"`
}

// Service records order placement. Fulfillment happens in other systems; this
// service only owns the placement row and its event.
type Service interface {
	// Create persists a fully built order inside the caller's transaction and
	// emits order.placed.
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error)
	// CreateFromQuote snapshots an approved quote into an order.
	CreateFromQuote(ctx context.Context, tx *gorm.DB, quote *models.Quote) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
}

type service struct {
	repo   Repository
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds the orders service.
func NewService(repo Repository, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, outbox: publisher, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	if order.CustomerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(order.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if order.OrderNumber == "" {
		order.OrderNumber = newOrderNumber(s.now())
	}
	if order.Status == "" {
		order.Status = enums.OrderStatusPlaced
	}

	created, err := s.repo.WithTx(tx).Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   created.ID,
		Data: OrderPlacedEvent{
			OrderID:       created.ID,
			OrderNumber:   created.OrderNumber,
			Source:        created.Source,
			QuoteID:       created.QuoteID,
			CustomerName:  created.CustomerName,
			CustomerEmail: created.CustomerEmail,
			Total:         created.Total,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order placed")
	}
	return created, nil
}

func (s *service) CreateFromQuote(ctx context.Context, tx *gorm.DB, quote *models.Quote) (*models.Order, error) {
	if quote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote required")
	}

	quoteID := quote.ID
	order := &models.Order{
		Source:        enums.CheckoutSourceQuote,
		QuoteID:       &quoteID,
		CustomerID:    quote.CustomerID,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		// Conversion keeps the quote's locked pricing snapshot untouched.
		Subtotal:      quote.Subtotal,
		DiscountTotal: quote.DiscountTotal,
		TaxTotal:      quote.TaxTotal,
		Total:         quote.EstimatedTotal,
		// Logistics are arranged offline for converted quotes.
		ShippingMethod: enums.ShippingMethodDoorstep,
		PaymentMethod:  enums.PaymentMethodCOD,
	}
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

	return s.Create(ctx, tx, order)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// newOrderNumber yields a human-referencable identifier, e.g. VLO-20260901-7BC4D9.
func newOrderNumber(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("VLO-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
