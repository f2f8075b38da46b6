package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localpay/internal/models"

	"gorm.io/gorm"
)

// ErrAlertClosed is returned when a status transition targets an alert that
// has already been resolved or marked false positive.
var ErrAlertClosed = errors.New("alert is already closed")

// AlertFilter narrows alert listings.
type AlertFilter struct {
	Status     string
	Severity   string
	TargetType string
	TargetID   uint
}

// AlertRepository persists fraud alerts materialized by the rule engine.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	CreateBatch(ctx context.Context, alerts []models.Alert) error
	GetByID(ctx context.Context, id uint) (*models.Alert, error)
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]models.Alert, int64, error)
	ListOpenByTarget(ctx context.Context, targetType string, targetID uint) ([]models.Alert, error)
	UpdateStatus(ctx context.Context, id uint, status string, notes string) (*models.Alert, error)
	Assign(ctx context.Context, id uint, staffID uint) error
	CountOpenBySeverity(ctx context.Context) (map[string]int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) CreateBatch(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&alerts).Error
}

func (r *alertRepository) GetByID(ctx context.Context, id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, filter AlertFilter, limit, offset int) ([]models.Alert, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != 0 {
		query = query.Where("target_id = ?", filter.TargetID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []models.Alert
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&alerts).Error
	return alerts, total, err
}

func (r *alertRepository) ListOpenByTarget(ctx context.Context, targetType string, targetID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Where("status NOT IN ?", []string{models.AlertStatusResolved, models.AlertStatusFalsePositive}).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

// UpdateStatus applies a staff status transition. ResolvedAt is stamped
// exactly once, on the first transition into resolved or false_positive.
func (r *alertRepository) UpdateStatus(ctx context.Context, id uint, status string, notes string) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&alert, id).Error; err != nil {
			return err
		}
		if !alert.Open() {
			return ErrAlertClosed
		}

		alert.Status = status
		if notes != "" {
			alert.ResolutionNotes = notes
		}
		if (status == models.AlertStatusResolved || status == models.AlertStatusFalsePositive) && alert.ResolvedAt == nil {
			now := time.Now()
			alert.ResolvedAt = &now
		}
		return tx.Save(&alert).Error
	})
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) Assign(ctx context.Context, id uint, staffID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": staffID,
			"status":      models.AlertStatusInvestigating,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *alertRepository) CountOpenBySeverity(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Severity string
		Count    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Select("severity, COUNT(*) as count").
		Where("status NOT IN ?", []string{models.AlertStatusResolved, models.AlertStatusFalsePositive}).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Severity] = r.Count
	}
	return counts, nil
}
