package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vertilift/vertilift-backend/pkg/enums"
)

// QuoteMessage is one entry in the quote conversation. Append-only; internal
// notes never reach customer-facing projections.
type QuoteMessage struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID    uuid.UUID        `gorm:"column:quote_id;type:uuid;not null;index"`
	SenderType enums.SenderType `gorm:"column:sender_type;not null"`
	SenderName string           `gorm:"column:sender_name;not null"`
	Message    string           `gorm:"column:message;not null"`
	IsInternal bool             `gorm:"column:is_internal;not null;default:false"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}
