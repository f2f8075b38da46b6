package repositories

import (
	"context"

	"localpay/internal/models"

	"gorm.io/gorm"
)

// KYCRepository persists identity-verification submissions.
type KYCRepository interface {
	Create(ctx context.Context, kyc *models.KYCVerification) error
	Update(ctx context.Context, kyc *models.KYCVerification) error
	GetLatestByUser(ctx context.Context, userID uint) (*models.KYCVerification, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(ctx context.Context, kyc *models.KYCVerification) error {
	return r.db.WithContext(ctx).Create(kyc).Error
}

func (r *kycRepository) Update(ctx context.Context, kyc *models.KYCVerification) error {
	return r.db.WithContext(ctx).Save(kyc).Error
}

func (r *kycRepository) GetLatestByUser(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	var kyc models.KYCVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&kyc).Error
	if err != nil {
		return nil, err
	}
	return &kyc, nil
}
