package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
	"github.com/vertilift/vertilift-backend/pkg/enums"
)

func setupQuotesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	quotes := `
CREATE TABLE IF NOT EXISTS quotes (
  id TEXT PRIMARY KEY,
  quote_number TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  priority TEXT NOT NULL DEFAULT 'medium',
  user_type TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  discount_total NUMERIC NOT NULL DEFAULT 0,
  tax_total NUMERIC NOT NULL DEFAULT 0,
  estimated_total NUMERIC NOT NULL DEFAULT 0,
  pricing_stale INTEGER NOT NULL DEFAULT 0,
  valid_until DATETIME,
  rejection_reason TEXT,
  expired_notified_at DATETIME,
  converted_order_id TEXT,
  lock_version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	quoteItems := `
CREATE TABLE IF NOT EXISTS quote_items (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_sku TEXT NOT NULL,
  product_thumbnail TEXT,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  discount_percentage NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	quoteMessages := `
CREATE TABLE IF NOT EXISTS quote_messages (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL,
  sender_type TEXT NOT NULL,
  sender_name TEXT NOT NULL,
  message TEXT NOT NULL,
  is_internal INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(quotes).Error)
	require.NoError(t, db.Exec(quoteItems).Error)
	require.NoError(t, db.Exec(quoteMessages).Error)
	return db
}

func createTestQuote(t *testing.T, db *gorm.DB, status enums.QuoteStatus, customerID string) *models.Quote {
	t.Helper()

	quote := &models.Quote{
		ID:            uuid.New(),
		QuoteNumber:   "VLQ-TEST-" + uuid.NewString()[:6],
		Status:        status,
		Priority:      enums.QuotePriorityMedium,
		UserType:      enums.QuoteUserTypeVerified,
		CustomerID:    customerID,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, db.Create(quote).Error)

	item := &models.QuoteItem{
		ID:          uuid.New(),
		QuoteID:     quote.ID,
		ProductName: "Guide rail 5m",
		ProductSKU:  "GR-500",
		Quantity:    2,
		UnitPrice:   decimal.NewFromInt(100),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, db.Create(item).Error)
	quote.Items = []models.QuoteItem{*item}
	return quote
}

func TestRepositoryUpdateCAS(t *testing.T) {
	db := setupQuotesTestDB(t)
	repo := NewRepository(db)
	quote := createTestQuote(t, db, enums.QuoteStatusPending, "cus_cas")

	ok, err := repo.UpdateCAS(context.Background(), quote.ID, 0, map[string]any{
		"status": enums.QuoteStatusReviewing,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindByID(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusReviewing, reloaded.Status)
	assert.Equal(t, 1, reloaded.LockVersion)

	// A writer holding the stale version loses.
	ok, err = repo.UpdateCAS(context.Background(), quote.ID, 0, map[string]any{
		"status": enums.QuoteStatusApproved,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err = repo.FindByID(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuoteStatusReviewing, reloaded.Status)
}

func TestRepositoryFindByIDPreloadsRelations(t *testing.T) {
	db := setupQuotesTestDB(t)
	repo := NewRepository(db)
	quote := createTestQuote(t, db, enums.QuoteStatusPending, "cus_preload")

	message := &models.QuoteMessage{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		SenderType: enums.SenderTypeCustomer,
		SenderName: "Test Customer",
		Message:    "how soon can these ship?",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(message).Error)

	reloaded, err := repo.FindByID(context.Background(), quote.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	require.Len(t, reloaded.Messages, 1)
	assert.Equal(t, "GR-500", reloaded.Items[0].ProductSKU)
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupQuotesTestDB(t)
	repo := NewRepository(db)

	customerID := "cus_list_" + uuid.NewString()[:6]
	pending := createTestQuote(t, db, enums.QuoteStatusPending, customerID)
	reviewing := createTestQuote(t, db, enums.QuoteStatusReviewing, customerID)

	status := enums.QuoteStatusReviewing
	rows, err := repo.List(context.Background(), ListFilter{
		Status:     &status,
		CustomerID: customerID,
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reviewing.ID, rows[0].ID)

	rows, err = repo.List(context.Background(), ListFilter{CustomerID: customerID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	_ = pending
}

func TestRepositoryFindExpiredApproved(t *testing.T) {
	db := setupQuotesTestDB(t)
	repo := NewRepository(db)

	customerID := "cus_expiry_" + uuid.NewString()[:6]
	expired := createTestQuote(t, db, enums.QuoteStatusApproved, customerID)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&models.Quote{}).Where("id = ?", expired.ID).
		Update("valid_until", past).Error)

	current := createTestQuote(t, db, enums.QuoteStatusApproved, customerID)
	future := time.Now().Add(48 * time.Hour)
	require.NoError(t, db.Model(&models.Quote{}).Where("id = ?", current.ID).
		Update("valid_until", future).Error)

	rows, err := repo.FindExpiredApproved(context.Background(), time.Now(), 100)
	require.NoError(t, err)

	found := false
	for _, row := range rows {
		require.NotEqual(t, current.ID, row.ID)
		if row.ID == expired.ID {
			found = true
		}
	}
	assert.True(t, found, "expected expired quote in sweep window")

	// Stamped quotes leave the sweep window.
	require.NoError(t, repo.StampExpiredNotified(context.Background(), expired.ID, time.Now()))
	rows, err = repo.FindExpiredApproved(context.Background(), time.Now(), 100)
	require.NoError(t, err)
	for _, row := range rows {
		require.NotEqual(t, expired.ID, row.ID)
	}
}
