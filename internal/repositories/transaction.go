package repositories

import (
	"context"
	"fmt"
	"time"

	"localpay/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository is the history accessor the compliance engines read
// from. History is always returned newest-first.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListBySubject(ctx context.Context, subjectType string, subjectID uint, since *time.Time, limit int) ([]models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
	CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error)
	GetSubjectStats(ctx context.Context, subjectType string, subjectID uint) (*models.TransactionStats, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) subjectQuery(ctx context.Context, subjectType string, subjectID uint) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if subjectType == models.TargetTypeMerchant {
		return query.Where("merchant_id = ?", subjectID)
	}
	return query.Where("user_id = ?", subjectID)
}

func (r *transactionRepository) ListBySubject(ctx context.Context, subjectType string, subjectID uint, since *time.Time, limit int) ([]models.Transaction, error) {
	query := r.subjectQuery(ctx, subjectType, subjectID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var txs []models.Transaction
	if err := query.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&txs).Error
	return txs, total, err
}

// CountByUserSince feeds the velocity check: how many transactions the user
// made inside the trailing window.
func (r *transactionRepository) CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// GetSubjectStats aggregates a subject's completed transaction history for
// the composite risk scorer.
func (r *transactionRepository) GetSubjectStats(ctx context.Context, subjectType string, subjectID uint) (*models.TransactionStats, error) {
	var stats models.TransactionStats
	err := r.subjectQuery(ctx, subjectType, subjectID).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total_volume, COALESCE(AVG(amount), 0) as avg_amount, COALESCE(MAX(amount), 0) as max_amount").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction stats: %w", err)
	}
	return &stats, nil
}
