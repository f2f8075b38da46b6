package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"localpay/internal/models"
	"localpay/internal/repositories/cache"

	"gorm.io/gorm"
)

const (
	enabledRulesCacheKey = "fds:rules:enabled"
	rulesCacheTTL        = 5 * time.Minute
)

// DetectionRuleRepository manages fraud detection rule definitions. The
// enabled set is cached because every transaction evaluation reads it.
type DetectionRuleRepository interface {
	Create(ctx context.Context, rule *models.DetectionRule) error
	Update(ctx context.Context, rule *models.DetectionRule) error
	GetByID(ctx context.Context, id uint) (*models.DetectionRule, error)
	List(ctx context.Context, limit, offset int) ([]models.DetectionRule, int64, error)
	ListEnabled(ctx context.Context) ([]models.DetectionRule, error)
	SetEnabled(ctx context.Context, id uint, enabled bool) error
}

type detectionRuleRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewDetectionRuleRepository(db *gorm.DB, cacheSvc *cache.CacheService) DetectionRuleRepository {
	return &detectionRuleRepository{db: db, cache: cacheSvc}
}

func (r *detectionRuleRepository) Create(ctx context.Context, rule *models.DetectionRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create detection rule: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *detectionRuleRepository) Update(ctx context.Context, rule *models.DetectionRule) error {
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update detection rule: %w", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *detectionRuleRepository) GetByID(ctx context.Context, id uint) (*models.DetectionRule, error) {
	var rule models.DetectionRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *detectionRuleRepository) List(ctx context.Context, limit, offset int) ([]models.DetectionRule, int64, error) {
	var rules []models.DetectionRule
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.DetectionRule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, total, err
}

func (r *detectionRuleRepository) ListEnabled(ctx context.Context) ([]models.DetectionRule, error) {
	if r.cache != nil {
		var cached []models.DetectionRule
		if hit, err := r.cache.Get(ctx, enabledRulesCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	var rules []models.DetectionRule
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("id").
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.SetWithTTL(ctx, enabledRulesCacheKey, rules, rulesCacheTTL); err != nil {
			log.Printf("failed to cache enabled rules: %v", err)
		}
	}
	return rules, nil
}

func (r *detectionRuleRepository) SetEnabled(ctx context.Context, id uint, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.DetectionRule{}).
		Where("id = ?", id).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *detectionRuleRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, enabledRulesCacheKey); err != nil {
		log.Printf("failed to invalidate rule cache: %v", err)
	}
}
