package repositories

import (
	"context"

	"localpay/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository provides merchant lookup for the compliance engines
// (verification status reads).
type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Merchant, error)
	Update(ctx context.Context, merchant *models.Merchant) error
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByUserID(ctx context.Context, userID uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) Update(ctx context.Context, merchant *models.Merchant) error {
	return r.db.WithContext(ctx).Save(merchant).Error
}
