package fds

import (
	"context"
	"time"

	"localpay/internal/models"
)

// TriggeredRule is one rule that tripped on a transaction, with its
// contributed risk score (the maximum across the rule's internal checks).
type TriggeredRule struct {
	Rule      models.DetectionRule `json:"rule"`
	RiskScore int                  `json:"risk_score"`
	Checks    []string             `json:"checks"`
}

// Evaluation is the outcome of running one transaction through the enabled
// rule set. Alerts holds one draft per triggered rule; persistence of the
// drafts is the caller's responsibility unless the Service wrapper is used.
type Evaluation struct {
	RiskLevel string          `json:"risk_level"`
	RiskScore int             `json:"risk_score"`
	Triggered []TriggeredRule `json:"triggered_rules"`
	Alerts    []models.Alert  `json:"alerts"`
}

// HistoryCounter counts a subject's recent transactions for velocity checks.
// Implemented by the transaction repository.
type HistoryCounter interface {
	CountByUserSince(ctx context.Context, userID uint, since time.Time) (int64, error)
}

// Auditor receives fire-and-forget audit entries for engine decisions.
type Auditor interface {
	Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON)
}

// MetricsCollector defines the metrics seam for the rule engine.
type MetricsCollector interface {
	RecordEvaluation(duration time.Duration)
	RecordTriggeredRule(ruleType string)
	RecordAlertCreated(severity string)
	RecordError(operation string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvaluation(time.Duration) {}
func (NoopMetricsCollector) RecordTriggeredRule(string)     {}
func (NoopMetricsCollector) RecordAlertCreated(string)      {}
func (NoopMetricsCollector) RecordError(string)             {}
