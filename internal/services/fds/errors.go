package fds

import "errors"

// Service errors
var (
	ErrNoRecognizedConditions = errors.New("rule conditions contain no recognized checks")
	ErrInvalidCondition       = errors.New("invalid rule condition")
	ErrNilTransaction         = errors.New("transaction is required")
	ErrInvalidRuleType        = errors.New("invalid rule type")
	ErrInvalidSeverity        = errors.New("invalid severity")
	ErrInvalidAlertStatus     = errors.New("invalid alert status")
)
