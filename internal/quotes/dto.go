package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/pagination"
)

// ListFilter narrows the admin quote listing.
type ListFilter struct {
	Status     *enums.QuoteStatus
	Priority   *enums.QuotePriority
	CustomerID string
	Cursor     *pagination.Cursor
	Limit      int
}

// CreateItemInput is one requested line on a new quote. Prices are assigned
// later by an admin, never by the requester.
type CreateItemInput struct {
	ProductName      string
	ProductSKU       string
	ProductThumbnail *string
	Quantity         int
}

type CreateInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	UserType      enums.QuoteUserType
	Items         []CreateItemInput
	Message       string
}

type ApproveInput struct {
	QuoteID   uuid.UUID
	AdminName string
	Note      string
}

type RejectInput struct {
	QuoteID   uuid.UUID
	AdminName string
	Reason    string
}

type UpdatePriorityInput struct {
	QuoteID  uuid.UUID
	Priority enums.QuotePriority
}

// PricingField names the per-item value an admin may edit.
type PricingField string

const (
	PricingFieldUnitPrice          PricingField = "unit_price"
	PricingFieldDiscountPercentage PricingField = "discount_percentage"
)

type UpdateItemPricingInput struct {
	QuoteID uuid.UUID
	ItemID  uuid.UUID
	Field   PricingField
	Value   decimal.Decimal
}

type SendMessageInput struct {
	QuoteID    uuid.UUID
	SenderType enums.SenderType
	SenderName string
	Message    string
	IsInternal bool
}

type ConvertInput struct {
	QuoteID   uuid.UUID
	AdminName string
}

// QuoteApprovedEvent is the outbox payload for an approval. Fields are limited
// to what the customer-facing notification may show.
type QuoteApprovedEvent struct {
	QuoteID        uuid.UUID       `json:"quote_id"`
	QuoteNumber    string          `json:"quote_number"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	ValidUntil     time.Time       `json:"valid_until"`
}

type QuoteRejectedEvent struct {
	QuoteID       uuid.UUID `json:"quote_id"`
	QuoteNumber   string    `json:"quote_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Reason        string    `json:"reason"`
}

type QuoteExpiredEvent struct {
	QuoteID       uuid.UUID `json:"quote_id"`
	QuoteNumber   string    `json:"quote_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ValidUntil    time.Time `json:"valid_until"`
}

// CustomerQuoteView is the storefront projection of a quote. Internal
// messages are stripped before it leaves the service.
type CustomerQuoteView struct {
	ID             uuid.UUID              `json:"id"`
	QuoteNumber    string                 `json:"quote_number"`
	Status         enums.QuoteStatus      `json:"status"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountTotal  decimal.Decimal        `json:"discount_total"`
	TaxTotal       decimal.Decimal        `json:"tax_total"`
	EstimatedTotal decimal.Decimal        `json:"estimated_total"`
	ValidUntil     *time.Time             `json:"valid_until,omitempty"`
	Items          []CustomerQuoteItem    `json:"items"`
	Messages       []CustomerQuoteMessage `json:"messages"`
	CreatedAt      time.Time              `json:"created_at"`
}

type CustomerQuoteItem struct {
	ID                 uuid.UUID       `json:"id"`
	ProductName        string          `json:"product_name"`
	ProductSKU         string          `json:"product_sku"`
	ProductThumbnail   *string         `json:"product_thumbnail,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TotalPrice         decimal.Decimal `json:"total_price"`
}

type CustomerQuoteMessage struct {
	ID         uuid.UUID        `json:"id"`
	SenderType enums.SenderType `json:"sender_type"`
	SenderName string           `json:"sender_name"`
	Message    string           `json:"message"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ListResult pairs a page of quotes with the cursor for the next one.
type ListResult struct {
	Quotes     []models.Quote
	NextCursor string
}
