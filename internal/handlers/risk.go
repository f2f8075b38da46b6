package handlers

import (
	"errors"
	"strconv"

	"localpay/internal/repositories"
	"localpay/internal/services/aml"
	"localpay/internal/services/audit"
	"localpay/internal/services/fds"
	"localpay/internal/services/risk"
	"localpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// recentAlertCount bounds the dashboard's recent-alert slice.
const recentAlertCount = 10

// RiskHandler exposes composite risk scoring and the compliance dashboard.
type RiskHandler struct {
	riskService  risk.Service
	fdsService   fds.Service
	amlService   aml.Service
	auditService audit.Service
}

func NewRiskHandler(riskService risk.Service, fdsService fds.Service, amlService aml.Service, auditService audit.Service) *RiskHandler {
	return &RiskHandler{
		riskService:  riskService,
		fdsService:   fdsService,
		amlService:   amlService,
		auditService: auditService,
	}
}

// GetCompositeRisk returns the weighted risk view of one subject.
func (h *RiskHandler) GetCompositeRisk(c *fiber.Ctx) error {
	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid subject ID")
	}
	subjectType := c.Params("type")

	result, err := h.riskService.ScoreSubject(c.UserContext(), subjectType, uint(subjectID))
	if err != nil {
		if errors.Is(err, risk.ErrInvalidSubjectType) {
			return utils.BadRequest(c, "Invalid subject type")
		}
		return utils.InternalError(c, "Failed to score subject")
	}

	return utils.Success(c, result)
}

// GetDashboard returns the open-work counts compliance staff triage from.
func (h *RiskHandler) GetDashboard(c *fiber.Ctx) error {
	alertCounts, err := h.fdsService.CountOpenAlerts(c.UserContext())
	if err != nil {
		return utils.InternalError(c, "Failed to count alerts")
	}

	caseCounts, err := h.amlService.CountOpenCases(c.UserContext())
	if err != nil {
		return utils.InternalError(c, "Failed to count cases")
	}

	recentAlerts, _, err := h.fdsService.ListAlerts(c.UserContext(), repositories.AlertFilter{}, recentAlertCount, 0)
	if err != nil {
		return utils.InternalError(c, "Failed to load recent alerts")
	}

	return utils.Success(c, fiber.Map{
		"open_alerts_by_severity": alertCounts,
		"open_cases_by_status":    caseCounts,
		"recent_alerts":           recentAlerts,
	})
}

// ListAuditLog returns recent compliance actions, optionally scoped to one
// entity.
func (h *RiskHandler) ListAuditLog(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")

	if entityType != "" {
		entries, err := h.auditService.ListByEntity(c.UserContext(), entityType, entityID, limit)
		if err != nil {
			return utils.InternalError(c, "Failed to load audit log")
		}
		return utils.Success(c, entries)
	}

	entries, err := h.auditService.ListRecent(c.UserContext(), limit)
	if err != nil {
		return utils.InternalError(c, "Failed to load audit log")
	}
	return utils.Success(c, entries)
}
