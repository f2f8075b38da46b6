package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localpay/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// CaseFilter narrows case listings.
type CaseFilter struct {
	Status      string
	CaseType    string
	SubjectType string
	SubjectID   uint
}

// AmlCaseRepository persists AML investigation cases. Case numbers are
// sequential per calendar year; generation is serialized by a
// count-and-insert transaction with retry against the unique index.
type AmlCaseRepository interface {
	Create(ctx context.Context, c *models.AmlCase) error
	Update(ctx context.Context, c *models.AmlCase) error
	GetByID(ctx context.Context, id uint) (*models.AmlCase, error)
	List(ctx context.Context, filter CaseFilter, limit, offset int) ([]models.AmlCase, int64, error)
	ListOpenBySubject(ctx context.Context, subjectType string, subjectID uint) ([]models.AmlCase, error)
	CountOpenByStatus(ctx context.Context) (map[string]int64, error)
}

type amlCaseRepository struct {
	db *gorm.DB
}

func NewAmlCaseRepository(db *gorm.DB) AmlCaseRepository {
	return &amlCaseRepository{db: db}
}

const caseNumberRetries = 3

// isDuplicateKey recognizes a unique-index violation whether or not the
// dialector translated it (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create assigns the year-scoped case number and inserts the case. Two
// concurrent creations can count the same value; the unique index on
// case_number rejects the loser, which recounts and retries.
func (r *amlCaseRepository) Create(ctx context.Context, c *models.AmlCase) error {
	year := time.Now().Year()
	prefix := fmt.Sprintf("AML-%d-", year)

	var lastErr error
	for attempt := 0; attempt < caseNumberRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.AmlCase{}).
				Where("case_number LIKE ?", prefix+"%").
				Count(&count).Error; err != nil {
				return err
			}
			c.CaseNumber = fmt.Sprintf("%s%06d", prefix, count+1)
			return tx.Create(c).Error
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if !isDuplicateKey(err) {
			return fmt.Errorf("failed to create aml case: %w", err)
		}
		c.ID = 0
	}
	return fmt.Errorf("failed to allocate case number after %d attempts: %w", caseNumberRetries, lastErr)
}

func (r *amlCaseRepository) Update(ctx context.Context, c *models.AmlCase) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *amlCaseRepository) GetByID(ctx context.Context, id uint) (*models.AmlCase, error) {
	var c models.AmlCase
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *amlCaseRepository) List(ctx context.Context, filter CaseFilter, limit, offset int) ([]models.AmlCase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AmlCase{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CaseType != "" {
		query = query.Where("case_type = ?", filter.CaseType)
	}
	if filter.SubjectType != "" {
		query = query.Where("subject_type = ?", filter.SubjectType)
	}
	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.AmlCase
	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&cases).Error
	return cases, total, err
}

func (r *amlCaseRepository) ListOpenBySubject(ctx context.Context, subjectType string, subjectID uint) ([]models.AmlCase, error) {
	var cases []models.AmlCase
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Where("status <> ?", models.CaseStatusClosed).
		Order("created_at DESC").
		Find(&cases).Error
	return cases, err
}

func (r *amlCaseRepository) CountOpenByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.AmlCase{}).
		Select("status, COUNT(*) as count").
		Where("status <> ?", models.CaseStatusClosed).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
