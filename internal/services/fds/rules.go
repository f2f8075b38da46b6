package fds

import (
	"context"
	"fmt"
	"strconv"

	"localpay/internal/models"

	"go.uber.org/zap"
)

var validRuleTypes = map[string]bool{
	models.RuleTypeVelocity:        true,
	models.RuleTypeAmountAnomaly:   true,
	models.RuleTypePhantomMerchant: true,
	models.RuleTypeQRDuplicate:     true,
	models.RuleTypeGeographic:      true,
	models.RuleTypeTimePattern:     true,
	models.RuleTypeDeviceAnomaly:   true,
}

// RuleInput carries the administrator-supplied rule definition.
type RuleInput struct {
	Name        string
	Description string
	RuleType    string
	Conditions  models.JSON
	Severity    string
	Enabled     *bool
}

func (in RuleInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCondition)
	}
	if !validRuleTypes[in.RuleType] {
		return ErrInvalidRuleType
	}
	if !models.ValidSeverity(in.Severity) {
		return ErrInvalidSeverity
	}
	// Reject definitions the evaluator could never act on.
	if _, err := DecodeConditions(in.Conditions); err != nil {
		return err
	}
	return nil
}

func (s *service) CreateRule(ctx context.Context, input RuleInput, actorID uint) (*models.DetectionRule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rule := &models.DetectionRule{
		Name:        input.Name,
		Description: input.Description,
		RuleType:    input.RuleType,
		Conditions:  input.Conditions,
		Severity:    input.Severity,
		Enabled:     true,
		CreatedBy:   actorID,
	}
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("detection rule created",
		zap.Uint("rule_id", rule.ID),
		zap.String("name", rule.Name),
		zap.String("rule_type", rule.RuleType))

	s.audit(ctx, actorID, "fds.rule.create", rule.ID, models.JSON{
		"name":      rule.Name,
		"rule_type": rule.RuleType,
		"severity":  rule.Severity,
	})
	return rule, nil
}

func (s *service) UpdateRule(ctx context.Context, id uint, input RuleInput, actorID uint) (*models.DetectionRule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rule.Name = input.Name
	rule.Description = input.Description
	rule.RuleType = input.RuleType
	rule.Conditions = input.Conditions
	rule.Severity = input.Severity
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "fds.rule.update", rule.ID, models.JSON{"name": rule.Name})
	return rule, nil
}

func (s *service) SetRuleEnabled(ctx context.Context, id uint, enabled bool, actorID uint) error {
	if err := s.rules.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}
	s.audit(ctx, actorID, "fds.rule.toggle", id, models.JSON{"enabled": enabled})
	return nil
}

func (s *service) GetRule(ctx context.Context, id uint) (*models.DetectionRule, error) {
	return s.rules.GetByID(ctx, id)
}

func (s *service) ListRules(ctx context.Context, limit, offset int) ([]models.DetectionRule, int64, error) {
	return s.rules.List(ctx, limit, offset)
}

func (s *service) audit(ctx context.Context, actorID uint, action string, ruleID uint, details models.JSON) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, actorID, action, "detection_rule", strconv.FormatUint(uint64(ruleID), 10), details)
}
