package fds

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/repositories/cache"

	"go.uber.org/zap"
)

// Service wires the evaluator to the rule store and alert persistence.
type Service interface {
	// EvaluateTransaction loads the enabled rule set, evaluates the
	// transaction and persists the resulting alerts.
	EvaluateTransaction(ctx context.Context, tx *models.Transaction) (*Evaluation, error)

	// Rule management. Conditions are validated on create and update;
	// a rule whose conditions decode to zero recognized checks is
	// rejected.
	CreateRule(ctx context.Context, input RuleInput, actorID uint) (*models.DetectionRule, error)
	UpdateRule(ctx context.Context, id uint, input RuleInput, actorID uint) (*models.DetectionRule, error)
	SetRuleEnabled(ctx context.Context, id uint, enabled bool, actorID uint) error
	GetRule(ctx context.Context, id uint) (*models.DetectionRule, error)
	ListRules(ctx context.Context, limit, offset int) ([]models.DetectionRule, int64, error)

	// Alert workflow.
	GetAlert(ctx context.Context, id uint) (*models.Alert, error)
	ListAlerts(ctx context.Context, filter repositories.AlertFilter, limit, offset int) ([]models.Alert, int64, error)
	UpdateAlertStatus(ctx context.Context, id uint, status, notes string, actorID uint) (*models.Alert, error)
	AssignAlert(ctx context.Context, id uint, staffID, actorID uint) error
	CountOpenAlerts(ctx context.Context) (map[string]int64, error)
}

// ScoreCacheInvalidator drops a subject's cached composite risk score
// when its open alerts change. Satisfied by *cache.CacheService.
type ScoreCacheInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

type service struct {
	rules      repositories.DetectionRuleRepository
	alerts     repositories.AlertRepository
	evaluator  *Evaluator
	auditor    Auditor
	metrics    MetricsCollector
	scoreCache ScoreCacheInvalidator
	logger     *zap.Logger
}

func NewService(
	rules repositories.DetectionRuleRepository,
	alerts repositories.AlertRepository,
	evaluator *Evaluator,
	auditor Auditor,
	metrics MetricsCollector,
	scoreCache ScoreCacheInvalidator,
	logger *zap.Logger,
) Service {
	if rules == nil {
		panic("rule repository is required")
	}
	if alerts == nil {
		panic("alert repository is required")
	}
	if evaluator == nil {
		panic("evaluator is required")
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		rules:      rules,
		alerts:     alerts,
		evaluator:  evaluator,
		auditor:    auditor,
		metrics:    metrics,
		scoreCache: scoreCache,
		logger:     logger.Named("fds"),
	}
}

// invalidateScore drops the cached composite score for an alert's target.
func (s *service) invalidateScore(ctx context.Context, targetType string, targetID uint) {
	if s.scoreCache == nil {
		return
	}
	if err := s.scoreCache.Delete(ctx, cache.RiskScoreKey(targetType, targetID)); err != nil {
		s.logger.Warn("failed to invalidate risk score cache", zap.Error(err))
	}
}

func (s *service) EvaluateTransaction(ctx context.Context, tx *models.Transaction) (*Evaluation, error) {
	start := time.Now()

	rules, err := s.rules.ListEnabled(ctx)
	if err != nil {
		s.metrics.RecordError("list_rules")
		return nil, fmt.Errorf("failed to load enabled rules: %w", err)
	}

	evaluation, err := s.evaluator.EvaluateTransaction(ctx, tx, rules)
	if err != nil {
		s.metrics.RecordError("evaluate")
		return nil, err
	}
	s.metrics.RecordEvaluation(time.Since(start))

	if len(evaluation.Alerts) > 0 {
		if err := s.alerts.CreateBatch(ctx, evaluation.Alerts); err != nil {
			s.metrics.RecordError("persist_alerts")
			return nil, fmt.Errorf("failed to persist alerts: %w", err)
		}
		for _, t := range evaluation.Triggered {
			s.metrics.RecordTriggeredRule(t.Rule.RuleType)
		}
		for _, a := range evaluation.Alerts {
			s.metrics.RecordAlertCreated(a.Severity)
		}
		s.invalidateScore(ctx, models.TargetTypeUser, tx.UserID)
	}

	s.logger.Info("transaction evaluated",
		zap.Uint("transaction_id", tx.ID),
		zap.Uint("user_id", tx.UserID),
		zap.Int("enabled_rules", len(rules)),
		zap.Int("triggered", len(evaluation.Triggered)),
		zap.Int("risk_score", evaluation.RiskScore),
		zap.String("risk_level", evaluation.RiskLevel))

	if s.auditor != nil {
		s.auditor.Record(ctx, 0, "fds.evaluate", "transaction", strconv.FormatUint(uint64(tx.ID), 10), models.JSON{
			"risk_score": evaluation.RiskScore,
			"risk_level": evaluation.RiskLevel,
			"triggered":  len(evaluation.Triggered),
		})
	}

	return evaluation, nil
}
