package fds

import (
	"fmt"
	"time"

	"localpay/internal/models"
)

// Condition keys recognized in a rule's condition payload. Unknown keys are
// ignored.
const (
	keyAmountThreshold       = "amount_threshold"
	keyVelocityLimit         = "velocity_limit"
	keyVelocityPeriodMinutes = "velocity_period_minutes"
	keyUnusualHours          = "unusual_hours"
)

// Condition is one typed check decoded from a rule's condition payload.
type Condition interface {
	checkName() string
}

// AmountThreshold trips when the transaction amount reaches Value.
type AmountThreshold struct {
	Value float64
}

func (AmountThreshold) checkName() string { return checkAmountThreshold }

// Velocity trips when the subject's transaction count inside the trailing
// Period reaches Limit.
type Velocity struct {
	Limit  int
	Period time.Duration
}

func (Velocity) checkName() string { return checkVelocity }

// UnusualHours trips when the transaction falls in the early-morning window.
type UnusualHours struct{}

func (UnusualHours) checkName() string { return checkUnusualHours }

// DecodeConditions turns a rule's condition payload into typed checks.
// Recognized keys with invalid values are decode errors; unrecognized keys
// are skipped. A payload yielding zero checks returns ErrNoRecognizedConditions
// so misconfigured rules surface at load time rather than silently never
// triggering.
func DecodeConditions(conditions models.JSON) ([]Condition, error) {
	var checks []Condition

	if raw, ok := conditions[keyAmountThreshold]; ok {
		value, ok := toFloat(raw)
		if !ok || value <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive number", ErrInvalidCondition, keyAmountThreshold)
		}
		checks = append(checks, AmountThreshold{Value: value})
	}

	if raw, ok := conditions[keyVelocityLimit]; ok {
		limit, ok := toFloat(raw)
		if !ok || limit < 1 {
			return nil, fmt.Errorf("%w: %s must be at least 1", ErrInvalidCondition, keyVelocityLimit)
		}
		period := 60.0
		if rawPeriod, ok := conditions[keyVelocityPeriodMinutes]; ok {
			period, ok = toFloat(rawPeriod)
			if !ok || period <= 0 {
				return nil, fmt.Errorf("%w: %s must be a positive number", ErrInvalidCondition, keyVelocityPeriodMinutes)
			}
		}
		checks = append(checks, Velocity{
			Limit:  int(limit),
			Period: time.Duration(period * float64(time.Minute)),
		})
	}

	if raw, ok := conditions[keyUnusualHours]; ok {
		enabled, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidCondition, keyUnusualHours)
		}
		if enabled {
			checks = append(checks, UnusualHours{})
		}
	}

	if len(checks) == 0 {
		return nil, ErrNoRecognizedConditions
	}
	return checks, nil
}

// toFloat coerces the numeric types encoding/json and callers produce.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
