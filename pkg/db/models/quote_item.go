package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteItem is one requested product line on a quote. TotalPrice is derived
// from unit price, quantity and discount; edits to either trigger recompute
// before persistence.
type QuoteItem struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID          uuid.UUID  `gorm:"column:quote_id;type:uuid;not null;index"`
	ProductName      string     `gorm:"column:product_name;not null"`
	ProductSKU       string     `gorm:"column:product_sku;not null"`
	ProductThumbnail *string    `gorm:"column:product_thumbnail"`

	Quantity           int             `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:numeric;not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric;not null;default:0"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:numeric;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
