package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vertilift/vertilift-backend/pkg/types"
)

// PickupLocation is a physical store a customer may collect an order from.
type PickupLocation struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string        `gorm:"column:name;not null"`
	Address   types.Address `gorm:"column:address;type:jsonb;serializer:json"`
	Phone     *string       `gorm:"column:phone"`
	Active    bool          `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
