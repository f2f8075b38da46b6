package fds

// Risk levels
const (
	RiskLevelCritical = "critical"
	RiskLevelHigh     = "high"
	RiskLevelMedium   = "medium"
	RiskLevelLow      = "low"
)

// Aggregate score thresholds for the per-transaction risk level.
const (
	criticalScoreThreshold = 80
	highScoreThreshold     = 60
	mediumScoreThreshold   = 40
)

// Per-check scoring weights.
const (
	amountCheckWeight   = 30
	velocityCheckWeight = 40
	unusualHoursScore   = 25

	maxRiskScore = 100
)

// Local hours [0, unusualHourEnd] count as unusual activity hours.
const unusualHourEnd = 5

// Check names recorded in alert details.
const (
	checkAmountThreshold = "amount_threshold"
	checkVelocity        = "velocity"
	checkUnusualHours    = "unusual_hours"
)

// riskLevelForScore maps an aggregate score to its level.
func riskLevelForScore(score int) string {
	switch {
	case score >= criticalScoreThreshold:
		return RiskLevelCritical
	case score >= highScoreThreshold:
		return RiskLevelHigh
	case score >= mediumScoreThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
