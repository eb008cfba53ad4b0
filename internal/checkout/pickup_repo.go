package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vertilift/vertilift-backend/pkg/db/models"
)

// PickupLocationRepository reads the stores available for order collection.
type PickupLocationRepository interface {
	ListActive(ctx context.Context) ([]models.PickupLocation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error)
}

type pickupLocationRepository struct {
	db *gorm.DB
}

// NewPickupLocationRepository builds the repository bound to the provided DB.
func NewPickupLocationRepository(db *gorm.DB) PickupLocationRepository {
	return &pickupLocationRepository{db: db}
}

func (r *pickupLocationRepository) ListActive(ctx context.Context) ([]models.PickupLocation, error) {
	var rows []models.PickupLocation
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *pickupLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error) {
	var location models.PickupLocation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}
