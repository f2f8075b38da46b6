package aml

import (
	"context"
	"fmt"

	"localpay/internal/config"
	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/repositories/cache"

	"go.uber.org/zap"
)

// Service is the AML workflow surface: on-demand screening, investigation
// case lifecycle, and CTR/STR report handling.
type Service interface {
	ScreenSubject(ctx context.Context, subjectType string, subjectID uint, actorID uint) (*ScreeningResult, error)

	CreateCase(ctx context.Context, input CreateCaseInput) (*models.AmlCase, error)
	GetCase(ctx context.Context, id uint) (*models.AmlCase, []models.AmlReport, error)
	ListCases(ctx context.Context, filter repositories.CaseFilter, limit, offset int) ([]models.AmlCase, int64, error)
	UpdateCaseStatus(ctx context.Context, id uint, status string, actorID uint) (*models.AmlCase, error)
	AssignInvestigator(ctx context.Context, id uint, investigatorID, actorID uint) (*models.AmlCase, error)
	RecordFindings(ctx context.Context, id uint, findings string, actorID uint) (*models.AmlCase, error)
	MarkReported(ctx context.Context, id uint, reference string, actorID uint) (*models.AmlCase, error)

	CountOpenCases(ctx context.Context) (map[string]int64, error)

	CreateReport(ctx context.Context, input CreateReportInput) (*models.AmlReport, error)
	SubmitReport(ctx context.Context, id uint, actorID uint) (*models.AmlReport, error)
	GetReport(ctx context.Context, id uint) (*models.AmlReport, error)
}

// ScoreCacheInvalidator drops a subject's cached composite risk score
// when its open cases change. Satisfied by *cache.CacheService.
type ScoreCacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type service struct {
	cfg        config.ComplianceConfig
	screener   *Screener
	txRepo     repositories.TransactionRepository
	userRepo   repositories.UserRepository
	merchRepo  repositories.MerchantRepository
	caseRepo   repositories.AmlCaseRepository
	repRepo    repositories.AmlReportRepository
	auditor    Auditor
	scoreCache ScoreCacheInvalidator
	logger     *zap.Logger
}

// NewService wires the AML workflow. The score cache is optional; all
// other dependencies are required.
func NewService(
	cfg config.ComplianceConfig,
	txRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	merchRepo repositories.MerchantRepository,
	caseRepo repositories.AmlCaseRepository,
	repRepo repositories.AmlReportRepository,
	auditor Auditor,
	scoreCache ScoreCacheInvalidator,
	logger *zap.Logger,
) Service {
	if txRepo == nil || userRepo == nil || merchRepo == nil || caseRepo == nil || repRepo == nil {
		panic("aml.NewService: nil repository")
	}
	if auditor == nil {
		panic("aml.NewService: nil auditor")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		cfg:        cfg,
		screener:   NewScreener(cfg),
		txRepo:     txRepo,
		userRepo:   userRepo,
		merchRepo:  merchRepo,
		caseRepo:   caseRepo,
		repRepo:    repRepo,
		auditor:    auditor,
		scoreCache: scoreCache,
		logger:     logger.Named("aml_service"),
	}
}

// invalidateScore drops the cached composite score for a case's subject.
func (s *service) invalidateScore(ctx context.Context, subjectType string, subjectID uint) {
	if s.scoreCache == nil {
		return
	}
	if err := s.scoreCache.Delete(ctx, cache.RiskScoreKey(subjectType, subjectID)); err != nil {
		s.logger.Warn("failed to invalidate risk score cache", zap.Error(err))
	}
}

// ScreenSubject runs the indicator set against the subject's full history
// and returns an ephemeral result. Nothing is persisted; the investigator
// decides whether the result warrants a case.
func (s *service) ScreenSubject(ctx context.Context, subjectType string, subjectID uint, actorID uint) (*ScreeningResult, error) {
	verified, err := s.subjectVerified(ctx, subjectType, subjectID)
	if err != nil {
		return nil, err
	}

	history, err := s.txRepo.ListBySubject(ctx, subjectType, subjectID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}

	score, level, indicators, summary := s.screener.Screen(history, verified)

	existing, err := s.caseRepo.ListOpenBySubject(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open cases: %w", err)
	}

	result := &ScreeningResult{
		SubjectType:   subjectType,
		SubjectID:     subjectID,
		RiskScore:     score,
		RiskLevel:     level,
		Indicators:    indicators,
		Summary:       summary,
		ExistingCases: existing,
	}

	s.logger.Info("subject screened",
		zap.String("subject_type", subjectType),
		zap.Uint("subject_id", subjectID),
		zap.Int("risk_score", score),
		zap.String("risk_level", level),
		zap.Int("indicators", len(indicators)))

	s.auditor.Record(ctx, actorID, "aml.screen", subjectType, fmt.Sprint(subjectID), models.JSON{
		"risk_score": score,
		"risk_level": level,
		"indicators": len(indicators),
	})

	return result, nil
}

func (s *service) subjectVerified(ctx context.Context, subjectType string, subjectID uint) (bool, error) {
	switch subjectType {
	case models.TargetTypeUser:
		user, err := s.userRepo.GetByID(ctx, subjectID)
		if err != nil {
			return false, fmt.Errorf("failed to load user %d: %w", subjectID, err)
		}
		return user.IsKYCVerified(), nil
	case models.TargetTypeMerchant:
		merchant, err := s.merchRepo.GetByID(ctx, subjectID)
		if err != nil {
			return false, fmt.Errorf("failed to load merchant %d: %w", subjectID, err)
		}
		return merchant.IsVerified(), nil
	default:
		return false, ErrInvalidSubjectType
	}
}
