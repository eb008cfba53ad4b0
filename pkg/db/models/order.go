package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/types"
)

// Order is the record produced at checkout or quote conversion. Fulfillment is
// handled elsewhere; this service only records placement state.
type Order struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string               `gorm:"column:order_number;not null;uniqueIndex"`
	Source      enums.CheckoutSource `gorm:"column:source;not null"`
	QuoteID     *uuid.UUID           `gorm:"column:quote_id;type:uuid"`

	CustomerID    string `gorm:"column:customer_id;not null"`
	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerEmail string `gorm:"column:customer_email;not null"`

	ShippingMethod   enums.ShippingMethod `gorm:"column:shipping_method;not null"`
	PaymentMethod    enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	PickupLocationID *uuid.UUID           `gorm:"column:pickup_location_id;type:uuid"`
	ShippingAddress  *types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`

	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric;not null;default:0"`
	DiscountTotal decimal.Decimal `gorm:"column:discount_total;type:numeric;not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"column:tax_total;type:numeric;not null;default:0"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric;not null;default:0"`

	Status enums.OrderStatus `gorm:"column:status;not null;default:'placed'"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the snapshot of each line within an order.
type OrderItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductName        string          `gorm:"column:product_name;not null"`
	ProductSKU         string          `gorm:"column:product_sku;not null"`
	Quantity           int             `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric;not null;default:0"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:numeric;not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}
