package aml

import (
	"errors"
	"fmt"
)

// Service errors
var (
	ErrInvalidCaseType    = errors.New("invalid case type")
	ErrInvalidSubjectType = errors.New("invalid subject type")
	ErrInvalidReportType  = errors.New("invalid report type")
	ErrInvalidRiskLevel   = errors.New("invalid risk level")
	ErrCaseClosed         = errors.New("case is closed")
	ErrInvalidTransition  = errors.New("invalid case status transition")
	ErrReportNotDraft     = errors.New("report has already been submitted")
)

// ThresholdViolationError rejects a CTR report whose declared amount falls
// below the regulatory floor. It carries the threshold so callers can show
// it to the user.
type ThresholdViolationError struct {
	Threshold float64
	Amount    float64
}

func (e *ThresholdViolationError) Error() string {
	return fmt.Sprintf("declared amount %.0f KRW is below the CTR reporting threshold of %.0f KRW", e.Amount, e.Threshold)
}
