package handlers

import (
	"errors"
	"strconv"

	"localpay/internal/models"
	"localpay/internal/services/fds"
	"localpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// RuleHandler exposes detection-rule administration.
type RuleHandler struct {
	fdsService fds.Service
}

func NewRuleHandler(fdsService fds.Service) *RuleHandler {
	return &RuleHandler{fdsService: fdsService}
}

type ruleRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	RuleType    string      `json:"rule_type"`
	Conditions  models.JSON `json:"conditions"`
	Severity    string      `json:"severity"`
	Enabled     *bool       `json:"enabled"`
}

func (r ruleRequest) toInput() fds.RuleInput {
	return fds.RuleInput{
		Name:        r.Name,
		Description: r.Description,
		RuleType:    r.RuleType,
		Conditions:  r.Conditions,
		Severity:    r.Severity,
		Enabled:     r.Enabled,
	}
}

func ruleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, fds.ErrInvalidRuleType),
		errors.Is(err, fds.ErrInvalidSeverity),
		errors.Is(err, fds.ErrInvalidCondition),
		errors.Is(err, fds.ErrNoRecognizedConditions):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, "Failed to save rule")
	}
}

func (h *RuleHandler) CreateRule(c *fiber.Ctx) error {
	var req ruleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	rule, err := h.fdsService.CreateRule(c.UserContext(), req.toInput(), claims.UserID)
	if err != nil {
		return ruleError(c, err)
	}

	return utils.Respond(c, fiber.StatusCreated, rule)
}

func (h *RuleHandler) UpdateRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid rule ID")
	}

	var req ruleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	rule, err := h.fdsService.UpdateRule(c.UserContext(), uint(id), req.toInput(), claims.UserID)
	if err != nil {
		return ruleError(c, err)
	}

	return utils.Success(c, rule)
}

// SetRuleEnabled toggles a rule without touching its definition.
func (h *RuleHandler) SetRuleEnabled(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid rule ID")
	}

	var input struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.fdsService.SetRuleEnabled(c.UserContext(), uint(id), input.Enabled, claims.UserID); err != nil {
		return utils.InternalError(c, "Failed to update rule")
	}

	return utils.Success(c, fiber.Map{"id": id, "enabled": input.Enabled})
}

func (h *RuleHandler) GetRule(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid rule ID")
	}

	rule, err := h.fdsService.GetRule(c.UserContext(), uint(id))
	if err != nil {
		return utils.NotFound(c, "Rule not found")
	}

	return utils.Success(c, rule)
}

func (h *RuleHandler) ListRules(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	rules, total, err := h.fdsService.ListRules(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list rules")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(rules, p))
}
