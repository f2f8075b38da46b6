package models

import (
	"time"
)

// Alert statuses
const (
	AlertStatusNew           = "new"
	AlertStatusInvestigating = "investigating"
	AlertStatusResolved      = "resolved"
	AlertStatusFalsePositive = "false_positive"
	AlertStatusEscalated     = "escalated"
)

// Alert target types
const (
	TargetTypeUser        = "user"
	TargetTypeMerchant    = "merchant"
	TargetTypeTransaction = "transaction"
)

// Alert is a fraud alert materialized when a detection rule triggers on a
// transaction. Status transitions are made by compliance staff; ResolvedAt is
// stamped once, on transition into resolved or false_positive.
type Alert struct {
	ID              uint   `gorm:"primarykey"`
	AlertType       string `gorm:"not null"`
	Severity        string `gorm:"not null"`
	TargetType      string `gorm:"not null;index:idx_alert_target"`
	TargetID        uint   `gorm:"not null;index:idx_alert_target"`
	TransactionID   *uint  `gorm:"index"`
	Description     string
	Details         JSON   `gorm:"type:jsonb"`
	RiskScore       int    `gorm:"not null;default:0"`
	Status          string `gorm:"not null;default:'new';index"`
	AssignedTo      *uint
	ResolvedAt      *time.Time
	ResolutionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Open reports whether the alert still counts toward a subject's live risk.
func (a *Alert) Open() bool {
	return a.Status != AlertStatusResolved && a.Status != AlertStatusFalsePositive
}
