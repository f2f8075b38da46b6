package risk

import (
	"context"
	"fmt"
	"math"
	"time"

	"localpay/internal/config"
	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/repositories/cache"
	"localpay/internal/services/fds"

	"go.uber.org/zap"
)

// Component weights of the composite score.
const (
	fdsWeight         = 0.35
	amlWeight         = 0.45
	transactionWeight = 0.20

	compositeCriticalThreshold = 70
	compositeHighThreshold     = 50
	compositeMediumThreshold   = 25

	maxComponentScore = 100

	scoreCacheTTL = time.Minute
)

// Per-severity contribution of an open fraud alert to the FDS component.
var alertSeverityScores = map[string]int{
	models.SeverityCritical: 30,
	models.SeverityHigh:     20,
	models.SeverityMedium:   10,
	models.SeverityLow:      5,
}

// Per-risk-level contribution of an open AML case to the AML component.
var caseRiskScores = map[string]int{
	models.SeverityCritical: 40,
	models.SeverityHigh:     30,
	models.SeverityMedium:   20,
	models.SeverityLow:      10,
}

// Transaction-pattern contributions, relative to the CTR threshold.
const (
	maxAmountScore     = 20
	highVolumeScore    = 20
	highAvgScore       = 15
	volumeCTRMultiple  = 10
	avgAmountCTRFactor = 0.5
)

// CompositeRisk is the weighted view of a subject's standing across all
// compliance signals.
type CompositeRisk struct {
	SubjectType string                   `json:"subject_type"`
	SubjectID   uint                     `json:"subject_id"`
	Overall     int                      `json:"overall_score"`
	FDS         int                      `json:"fds_score"`
	AML         int                      `json:"aml_score"`
	Transaction int                      `json:"transaction_score"`
	RiskLevel   string                   `json:"risk_level"`
	OpenAlerts  int                      `json:"open_alerts"`
	OpenCases   int                      `json:"open_cases"`
	Stats       *models.TransactionStats `json:"transaction_stats,omitempty"`
}

// Service scores subjects across compliance signals.
type Service interface {
	ScoreSubject(ctx context.Context, subjectType string, subjectID uint) (*CompositeRisk, error)
}

// ScoreCache holds recently computed composite scores. Satisfied by
// *cache.CacheService; a nil cache disables caching.
type ScoreCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type service struct {
	cfg        config.ComplianceConfig
	alertRepo  repositories.AlertRepository
	caseRepo   repositories.AmlCaseRepository
	txRepo     repositories.TransactionRepository
	scoreCache ScoreCache
	logger     *zap.Logger
}

func NewService(
	cfg config.ComplianceConfig,
	alertRepo repositories.AlertRepository,
	caseRepo repositories.AmlCaseRepository,
	txRepo repositories.TransactionRepository,
	scoreCache ScoreCache,
	logger *zap.Logger,
) Service {
	if alertRepo == nil || caseRepo == nil || txRepo == nil {
		panic("risk.NewService: nil repository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		cfg:        cfg,
		alertRepo:  alertRepo,
		caseRepo:   caseRepo,
		txRepo:     txRepo,
		scoreCache: scoreCache,
		logger:     logger.Named("risk_service"),
	}
}

// ScoreSubject computes the three component scores and their weighted
// combination. A subject with no alerts, no cases, and no history scores
// zero. Scores are cached for a short window; alert and case mutations
// invalidate the cached entry.
func (s *service) ScoreSubject(ctx context.Context, subjectType string, subjectID uint) (*CompositeRisk, error) {
	if subjectType != models.TargetTypeUser && subjectType != models.TargetTypeMerchant {
		return nil, ErrInvalidSubjectType
	}

	cacheKey := cache.RiskScoreKey(subjectType, subjectID)
	if s.scoreCache != nil {
		var cached CompositeRisk
		if hit, err := s.scoreCache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	alerts, err := s.alertRepo.ListOpenByTarget(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open alerts: %w", err)
	}

	cases, err := s.caseRepo.ListOpenBySubject(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open cases: %w", err)
	}

	stats, err := s.txRepo.GetSubjectStats(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction stats: %w", err)
	}

	fdsScore := scoreAlerts(alerts)
	amlScore := scoreCases(cases)
	txScore := s.scoreTransactions(stats)

	overall := int(math.Round(
		float64(fdsScore)*fdsWeight +
			float64(amlScore)*amlWeight +
			float64(txScore)*transactionWeight))

	result := &CompositeRisk{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Overall:     overall,
		FDS:         fdsScore,
		AML:         amlScore,
		Transaction: txScore,
		RiskLevel:   levelForScore(overall),
		OpenAlerts:  len(alerts),
		OpenCases:   len(cases),
		Stats:       stats,
	}

	if s.scoreCache != nil {
		if err := s.scoreCache.SetWithTTL(ctx, cacheKey, result, scoreCacheTTL); err != nil {
			s.logger.Warn("failed to cache risk score", zap.Error(err))
		}
	}

	s.logger.Debug("composite risk scored",
		zap.String("subject_type", subjectType),
		zap.Uint("subject_id", subjectID),
		zap.Int("overall", overall),
		zap.Int("fds", fdsScore),
		zap.Int("aml", amlScore),
		zap.Int("transaction", txScore))

	return result, nil
}

func scoreAlerts(alerts []models.Alert) int {
	score := 0
	for _, a := range alerts {
		score += alertSeverityScores[a.Severity]
	}
	return capComponent(score)
}

func scoreCases(cases []models.AmlCase) int {
	score := 0
	for _, c := range cases {
		score += caseRiskScores[c.RiskLevel]
	}
	return capComponent(score)
}

func (s *service) scoreTransactions(stats *models.TransactionStats) int {
	if stats == nil || stats.Count == 0 {
		return 0
	}
	score := 0
	if stats.MaxAmount >= s.cfg.CTRThreshold {
		score += maxAmountScore
	}
	if stats.TotalVolume >= volumeCTRMultiple*s.cfg.CTRThreshold {
		score += highVolumeScore
	}
	if stats.AvgAmount >= avgAmountCTRFactor*s.cfg.CTRThreshold {
		score += highAvgScore
	}
	return capComponent(score)
}

func capComponent(score int) int {
	if score > maxComponentScore {
		return maxComponentScore
	}
	return score
}

func levelForScore(score int) string {
	switch {
	case score >= compositeCriticalThreshold:
		return fds.RiskLevelCritical
	case score >= compositeHighThreshold:
		return fds.RiskLevelHigh
	case score >= compositeMediumThreshold:
		return fds.RiskLevelMedium
	default:
		return fds.RiskLevelLow
	}
}
