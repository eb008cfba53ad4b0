package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
)

// Repository is the persistence surface for quotes. WithTx rebinds the
// repository to an open transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, filter ListFilter) ([]models.Quote, error)

	// UpdateCAS applies updates only when lock_version still matches and bumps
	// it by one. Returns false when another writer got there first.
	UpdateCAS(ctx context.Context, id uuid.UUID, lockVersion int, updates map[string]any) (bool, error)

	UpdateItem(ctx context.Context, item *models.QuoteItem) error
	ReplaceItemTotals(ctx context.Context, items []models.QuoteItem) error

	AppendMessage(ctx context.Context, message *models.QuoteMessage) (*models.QuoteMessage, error)

	FindExpiredApproved(ctx context.Context, asOf time.Time, limit int) ([]models.Quote, error)
	StampExpiredNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}
