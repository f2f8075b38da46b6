package handlers

import (
	"errors"
	"strconv"

	"localpay/internal/repositories"
	"localpay/internal/services/fds"
	"localpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AlertHandler exposes the fraud-alert review workflow to compliance staff.
type AlertHandler struct {
	fdsService fds.Service
}

func NewAlertHandler(fdsService fds.Service) *AlertHandler {
	return &AlertHandler{fdsService: fdsService}
}

func (h *AlertHandler) ListAlerts(c *fiber.Ctx) error {
	targetID, _ := strconv.ParseUint(c.Query("target_id", "0"), 10, 32)
	filter := repositories.AlertFilter{
		Status:     c.Query("status"),
		Severity:   c.Query("severity"),
		TargetType: c.Query("target_type"),
		TargetID:   uint(targetID),
	}

	p := utils.GetPagination(c, 1, 20)
	alerts, total, err := h.fdsService.ListAlerts(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list alerts")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(alerts, p))
}

func (h *AlertHandler) GetAlert(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid alert ID")
	}

	alert, err := h.fdsService.GetAlert(c.UserContext(), uint(id))
	if err != nil {
		return utils.NotFound(c, "Alert not found")
	}

	return utils.Success(c, alert)
}

// UpdateAlertStatus applies a staff status transition.
func (h *AlertHandler) UpdateAlertStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid alert ID")
	}

	var input struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	alert, err := h.fdsService.UpdateAlertStatus(c.UserContext(), uint(id), input.Status, input.Notes, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, fds.ErrInvalidAlertStatus):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrAlertClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return utils.InternalError(c, "Failed to update alert")
		}
	}

	return utils.Success(c, alert)
}

// AssignAlert puts an alert under a staff member's investigation.
func (h *AlertHandler) AssignAlert(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid alert ID")
	}

	var input struct {
		StaffID uint `json:"staff_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	staffID := input.StaffID
	if staffID == 0 {
		staffID = claims.UserID
	}

	if err := h.fdsService.AssignAlert(c.UserContext(), uint(id), staffID, claims.UserID); err != nil {
		return utils.InternalError(c, "Failed to assign alert")
	}

	return utils.Success(c, fiber.Map{"id": id, "assigned_to": staffID})
}
