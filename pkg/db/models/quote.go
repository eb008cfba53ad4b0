package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/pkg/enums"
)

// Quote is a priced proposal a customer requests before committing to an order.
// Monetary aggregates are a materialized view over the items, recomputed by the
// pricing engine and never hand-edited.
type Quote struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteNumber   string              `gorm:"column:quote_number;not null;uniqueIndex"`
	Status        enums.QuoteStatus   `gorm:"column:status;not null;default:'pending'"`
	Priority      enums.QuotePriority `gorm:"column:priority;not null;default:'medium'"`
	UserType      enums.QuoteUserType `gorm:"column:user_type;not null"`
	CustomerID    string              `gorm:"column:customer_id;not null"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	CustomerEmail string              `gorm:"column:customer_email;not null"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric;not null;default:0"`
	DiscountTotal  decimal.Decimal `gorm:"column:discount_total;type:numeric;not null;default:0"`
	TaxTotal       decimal.Decimal `gorm:"column:tax_total;type:numeric;not null;default:0"`
	EstimatedTotal decimal.Decimal `gorm:"column:estimated_total;type:numeric;not null;default:0"`
	PricingStale   bool            `gorm:"column:pricing_stale;not null;default:false"`

	ValidUntil        *time.Time `gorm:"column:valid_until"`
	RejectionReason   *string    `gorm:"column:rejection_reason"`
	ExpiredNotifiedAt *time.Time `gorm:"column:expired_notified_at"`
	ConvertedOrderID  *uuid.UUID `gorm:"column:converted_order_id;type:uuid"`

	// LockVersion is the optimistic concurrency stamp; every transition and
	// pricing save is a compare-and-swap against it.
	LockVersion int `gorm:"column:lock_version;not null;default:0"`

	Items    []QuoteItem    `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	Messages []QuoteMessage `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
