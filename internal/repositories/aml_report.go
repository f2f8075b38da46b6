package repositories

import (
	"context"

	"localpay/internal/models"

	"gorm.io/gorm"
)

// AmlReportRepository persists CTR/STR report records.
type AmlReportRepository interface {
	Create(ctx context.Context, report *models.AmlReport) error
	Update(ctx context.Context, report *models.AmlReport) error
	GetByID(ctx context.Context, id uint) (*models.AmlReport, error)
	ListByCase(ctx context.Context, caseID uint) ([]models.AmlReport, error)
}

type amlReportRepository struct {
	db *gorm.DB
}

func NewAmlReportRepository(db *gorm.DB) AmlReportRepository {
	return &amlReportRepository{db: db}
}

func (r *amlReportRepository) Create(ctx context.Context, report *models.AmlReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *amlReportRepository) Update(ctx context.Context, report *models.AmlReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *amlReportRepository) GetByID(ctx context.Context, id uint) (*models.AmlReport, error) {
	var report models.AmlReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *amlReportRepository) ListByCase(ctx context.Context, caseID uint) ([]models.AmlReport, error) {
	var reports []models.AmlReport
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}
