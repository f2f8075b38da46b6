package models

import (
	"time"
)

// Detection rule types
const (
	RuleTypeVelocity        = "velocity"
	RuleTypeAmountAnomaly   = "amount_anomaly"
	RuleTypePhantomMerchant = "phantom_merchant"
	RuleTypeQRDuplicate     = "qr_duplicate"
	RuleTypeGeographic      = "geographic"
	RuleTypeTimePattern     = "time_pattern"
	RuleTypeDeviceAnomaly   = "device_anomaly"
)

// Severities shared by rules and alerts
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// DetectionRule is a fraud-detection rule definition. Rules are owned by
// compliance administrators; the evaluation engine only reads enabled rules.
// Conditions is a structured parameter set (amount_threshold, velocity_limit,
// velocity_period_minutes, unusual_hours); unknown keys are ignored.
type DetectionRule struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	RuleType    string `gorm:"not null"`
	Conditions  JSON   `gorm:"type:jsonb;not null"`
	Severity    string `gorm:"not null;default:'medium'"`
	Enabled     bool   `gorm:"default:true;index"`
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidSeverity reports whether s is a recognized severity value.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}
