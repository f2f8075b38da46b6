package models

import (
	"time"
)

// AML case types
const (
	CaseTypeCTR                = "ctr"
	CaseTypeSTR                = "str"
	CaseTypeSAR                = "sar"
	CaseTypeSuspiciousActivity = "suspicious_activity"
)

// AML case statuses
const (
	CaseStatusOpen          = "open"
	CaseStatusInvestigating = "investigating"
	CaseStatusPendingReport = "pending_report"
	CaseStatusReported      = "reported"
	CaseStatusClosed        = "closed"
)

// AML report KoFIU statuses
const (
	ReportStatusDraft     = "draft"
	ReportStatusSubmitted = "submitted"
	ReportStatusAccepted  = "accepted"
	ReportStatusRejected  = "rejected"
)

// AmlCase is an anti-money-laundering investigation case. CaseNumber is
// sequential and year-scoped (AML-2025-000123); generation is serialized by
// the repository layer.
type AmlCase struct {
	ID               uint   `gorm:"primarykey"`
	CaseNumber       string `gorm:"uniqueIndex;not null"`
	CaseType         string `gorm:"not null"`
	SubjectType      string `gorm:"not null;index:idx_case_subject"`
	SubjectID        uint   `gorm:"not null;index:idx_case_subject"`
	RiskLevel        string `gorm:"not null;default:'low'"`
	TotalAmount      *float64
	Status           string `gorm:"not null;default:'open';index"`
	InvestigatorID   *uint
	Summary          string
	Findings         string
	ReportedToKofiu  bool `gorm:"default:false"`
	KofiuReference   string
	KofiuReportedAt  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Open reports whether the case is still under investigation.
func (c *AmlCase) Open() bool {
	return c.Status != CaseStatusClosed
}

// AmlReport is a CTR/STR report record tracked locally; submission to KoFIU
// is an administrative step outside this system.
type AmlReport struct {
	ID             uint   `gorm:"primarykey"`
	CaseID         uint   `gorm:"not null;index"`
	ReportType     string `gorm:"not null"`
	ReportData     JSON   `gorm:"type:jsonb"`
	Amount         *float64
	KofiuStatus    string `gorm:"not null;default:'draft'"`
	KofiuReference string
	SubmittedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
