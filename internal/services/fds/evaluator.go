package fds

import (
	"context"
	"fmt"
	"math"
	"time"

	"localpay/internal/models"

	"go.uber.org/zap"
)

// Evaluator runs transactions through detection rules. It is stateless; the
// only external read is the velocity window count.
type Evaluator struct {
	history HistoryCounter
	logger  *zap.Logger
	now     func() time.Time
}

func NewEvaluator(history HistoryCounter, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		history: history,
		logger:  logger.Named("fds_evaluator"),
		now:     time.Now,
	}
}

// EvaluateTransaction evaluates one transaction against the supplied enabled
// rules and aggregates the triggered results. Rules whose conditions fail to
// decode are skipped with a warning; they were accepted before condition
// validation existed and must not break evaluation.
func (e *Evaluator) EvaluateTransaction(ctx context.Context, tx *models.Transaction, rules []models.DetectionRule) (*Evaluation, error) {
	if tx == nil {
		return nil, ErrNilTransaction
	}

	var triggered []TriggeredRule
	for i := range rules {
		rule := rules[i]
		checks, err := DecodeConditions(rule.Conditions)
		if err != nil {
			e.logger.Warn("skipping rule with undecodable conditions",
				zap.Uint("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Error(err))
			continue
		}

		result, err := e.evaluateRule(ctx, tx, rule, checks)
		if err != nil {
			return nil, err
		}
		if result != nil {
			triggered = append(triggered, *result)
		}
	}

	return e.aggregate(tx, triggered), nil
}

// evaluateRule runs every check of one rule. The rule triggers if any check
// trips; its contributed score is the maximum across tripped checks, not the
// sum.
func (e *Evaluator) evaluateRule(ctx context.Context, tx *models.Transaction, rule models.DetectionRule, checks []Condition) (*TriggeredRule, error) {
	score := 0
	var tripped []string

	for _, check := range checks {
		checkScore, hit, err := e.evaluateCheck(ctx, tx, check)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if !hit {
			continue
		}
		tripped = append(tripped, check.checkName())
		if checkScore > score {
			score = checkScore
		}
	}

	if len(tripped) == 0 {
		return nil, nil
	}
	return &TriggeredRule{Rule: rule, RiskScore: score, Checks: tripped}, nil
}

func (e *Evaluator) evaluateCheck(ctx context.Context, tx *models.Transaction, check Condition) (int, bool, error) {
	switch c := check.(type) {
	case AmountThreshold:
		if tx.Amount < c.Value {
			return 0, false, nil
		}
		score := int(math.Floor(tx.Amount / c.Value * amountCheckWeight))
		return capScore(score), true, nil

	case Velocity:
		since := e.now().Add(-c.Period)
		count, err := e.history.CountByUserSince(ctx, tx.UserID, since)
		if err != nil {
			return 0, false, fmt.Errorf("velocity window count: %w", err)
		}
		if count < int64(c.Limit) {
			return 0, false, nil
		}
		score := int(math.Floor(float64(count) / float64(c.Limit) * velocityCheckWeight))
		return capScore(score), true, nil

	case UnusualHours:
		at := tx.CreatedAt
		if at.IsZero() {
			at = e.now()
		}
		if hour := at.Hour(); hour >= 0 && hour <= unusualHourEnd {
			return unusualHoursScore, true, nil
		}
		return 0, false, nil
	}
	return 0, false, nil
}

// aggregate combines triggered rules into the transaction-level result: the
// mean of the contributed scores, floored and capped, with one alert draft
// per triggered rule.
func (e *Evaluator) aggregate(tx *models.Transaction, triggered []TriggeredRule) *Evaluation {
	if len(triggered) == 0 {
		return &Evaluation{RiskLevel: RiskLevelLow, RiskScore: 0}
	}

	sum := 0
	alerts := make([]models.Alert, 0, len(triggered))
	for _, t := range triggered {
		sum += t.RiskScore
		alerts = append(alerts, e.alertDraft(tx, t))
	}
	score := capScore(sum / len(triggered))

	return &Evaluation{
		RiskLevel: riskLevelForScore(score),
		RiskScore: score,
		Triggered: triggered,
		Alerts:    alerts,
	}
}

func (e *Evaluator) alertDraft(tx *models.Transaction, t TriggeredRule) models.Alert {
	return models.Alert{
		AlertType:     t.Rule.RuleType,
		Severity:      t.Rule.Severity,
		TargetType:    models.TargetTypeUser,
		TargetID:      tx.UserID,
		TransactionID: &tx.ID,
		Description:   fmt.Sprintf("detection rule %q triggered on transaction %d", t.Rule.Name, tx.ID),
		Details: models.JSON{
			"rule_id":   t.Rule.ID,
			"rule_name": t.Rule.Name,
			"checks":    t.Checks,
			"amount":    tx.Amount,
		},
		RiskScore: t.RiskScore,
		Status:    models.AlertStatusNew,
	}
}

func capScore(score int) int {
	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}
