package aml

import (
	"context"
	"time"

	"localpay/internal/models"
)

// Screening indicator types.
const (
	IndicatorHighVolume         = "high_volume"
	IndicatorCTRTransactions    = "ctr_transactions"
	IndicatorStructuring        = "structuring"
	IndicatorRapidTransactions  = "rapid_transactions"
	IndicatorUnverifiedIdentity = "unverified_identity"
)

// Indicator is one risk signal found while screening a subject.
type Indicator struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Value       float64 `json:"value,omitempty"`
}

// TransactionSummary describes the screened history.
type TransactionSummary struct {
	Count              int        `json:"count"`
	TotalAmount        float64    `json:"total_amount"`
	Volume30Days       float64    `json:"volume_30_days"`
	CTRCount           int        `json:"ctr_count"`
	NearThresholdCount int        `json:"near_threshold_count"`
	FirstAt            *time.Time `json:"first_at,omitempty"`
	LastAt             *time.Time `json:"last_at,omitempty"`
}

// ScreeningResult is the ephemeral outcome of screening one subject. It is
// returned to the caller, who decides whether to materialize a case.
type ScreeningResult struct {
	SubjectType   string             `json:"subject_type"`
	SubjectID     uint               `json:"subject_id"`
	RiskScore     int                `json:"risk_score"`
	RiskLevel     string             `json:"risk_level"`
	Indicators    []Indicator        `json:"indicators"`
	Summary       TransactionSummary `json:"transaction_summary"`
	ExistingCases []models.AmlCase   `json:"existing_cases"`
}

// CreateCaseInput describes a new investigation case.
type CreateCaseInput struct {
	CaseType    string
	SubjectType string
	SubjectID   uint
	RiskLevel   string
	TotalAmount *float64
	Summary     string
	CreatedBy   uint
}

// CreateReportInput describes a new CTR/STR report on a case.
type CreateReportInput struct {
	CaseID     uint
	ReportType string
	Amount     *float64
	ReportData models.JSON
	CreatedBy  uint
}

// Auditor receives fire-and-forget audit entries for workflow actions.
type Auditor interface {
	Record(ctx context.Context, actorID uint, action, entityType, entityID string, details models.JSON)
}
