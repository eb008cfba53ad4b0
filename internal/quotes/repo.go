package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
	"github.com/vertilift/vertilift-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quote repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Quote, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{}).
		Preload("Items")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []models.Quote
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateCAS(ctx context.Context, id uuid.UUID, lockVersion int, updates map[string]any) (bool, error) {
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["lock_version"] = gorm.Expr("lock_version + 1")

	result := r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ? AND lock_version = ?", id, lockVersion).
		Updates(merged)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UpdateItem(ctx context.Context, item *models.QuoteItem) error {
	return r.db.WithContext(ctx).Model(&models.QuoteItem{}).
		Where("id = ? AND quote_id = ?", item.ID, item.QuoteID).
		Updates(map[string]any{
			"unit_price":          item.UnitPrice,
			"discount_percentage": item.DiscountPercentage,
			"total_price":         item.TotalPrice,
		}).Error
}

func (r *repository) ReplaceItemTotals(ctx context.Context, items []models.QuoteItem) error {
	for i := range items {
		err := r.db.WithContext(ctx).Model(&models.QuoteItem{}).
			Where("id = ?", items[i].ID).
			Update("total_price", items[i].TotalPrice).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) AppendMessage(ctx context.Context, message *models.QuoteMessage) (*models.QuoteMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (r *repository) FindExpiredApproved(ctx context.Context, asOf time.Time, limit int) ([]models.Quote, error) {
	var rows []models.Quote
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.QuoteStatusApproved).
		Where("valid_until IS NOT NULL AND valid_until < ?", asOf).
		Where("expired_notified_at IS NULL").
		Order("valid_until ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) StampExpiredNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ?", id).
		Update("expired_notified_at", at).Error
}
