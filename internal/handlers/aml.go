package handlers

import (
	"errors"
	"strconv"

	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/services/aml"
	"localpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AmlHandler exposes screening, case management, and report filing.
type AmlHandler struct {
	amlService aml.Service
}

func NewAmlHandler(amlService aml.Service) *AmlHandler {
	return &AmlHandler{amlService: amlService}
}

// ScreenSubject runs on-demand AML screening of a user or merchant.
func (h *AmlHandler) ScreenSubject(c *fiber.Ctx) error {
	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid subject ID")
	}
	subjectType := c.Params("type")

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.amlService.ScreenSubject(c.UserContext(), subjectType, uint(subjectID), claims.UserID)
	if err != nil {
		if errors.Is(err, aml.ErrInvalidSubjectType) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Screening failed")
	}

	return utils.Success(c, result)
}

func (h *AmlHandler) CreateCase(c *fiber.Ctx) error {
	var input struct {
		CaseType    string   `json:"case_type"`
		SubjectType string   `json:"subject_type"`
		SubjectID   uint     `json:"subject_id"`
		RiskLevel   string   `json:"risk_level"`
		TotalAmount *float64 `json:"total_amount"`
		Summary     string   `json:"summary"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	created, err := h.amlService.CreateCase(c.UserContext(), aml.CreateCaseInput{
		CaseType:    input.CaseType,
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		RiskLevel:   input.RiskLevel,
		TotalAmount: input.TotalAmount,
		Summary:     input.Summary,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, aml.ErrInvalidCaseType),
			errors.Is(err, aml.ErrInvalidSubjectType),
			errors.Is(err, aml.ErrInvalidRiskLevel):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to create case")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, created)
}

func (h *AmlHandler) GetCase(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid case ID")
	}

	amlCase, reports, err := h.amlService.GetCase(c.UserContext(), uint(id))
	if err != nil {
		return utils.NotFound(c, "Case not found")
	}

	return utils.Success(c, fiber.Map{
		"case":    amlCase,
		"reports": reports,
	})
}

func (h *AmlHandler) ListCases(c *fiber.Ctx) error {
	subjectID, _ := strconv.ParseUint(c.Query("subject_id", "0"), 10, 32)
	filter := repositories.CaseFilter{
		Status:      c.Query("status"),
		CaseType:    c.Query("case_type"),
		SubjectType: c.Query("subject_type"),
		SubjectID:   uint(subjectID),
	}

	p := utils.GetPagination(c, 1, 20)
	cases, total, err := h.amlService.ListCases(c.UserContext(), filter, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list cases")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(cases, p))
}

func caseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFound(c, "Case not found")
	case errors.Is(err, aml.ErrCaseClosed),
		errors.Is(err, aml.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return utils.InternalError(c, "Failed to update case")
	}
}

func (h *AmlHandler) UpdateCaseStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid case ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	amlCase, err := h.amlService.UpdateCaseStatus(c.UserContext(), uint(id), input.Status, claims.UserID)
	if err != nil {
		return caseError(c, err)
	}

	return utils.Success(c, amlCase)
}

func (h *AmlHandler) AssignInvestigator(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid case ID")
	}

	var input struct {
		InvestigatorID uint `json:"investigator_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	investigatorID := input.InvestigatorID
	if investigatorID == 0 {
		investigatorID = claims.UserID
	}

	amlCase, err := h.amlService.AssignInvestigator(c.UserContext(), uint(id), investigatorID, claims.UserID)
	if err != nil {
		return caseError(c, err)
	}

	return utils.Success(c, amlCase)
}

func (h *AmlHandler) RecordFindings(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid case ID")
	}

	var input struct {
		Findings string `json:"findings"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	amlCase, err := h.amlService.RecordFindings(c.UserContext(), uint(id), input.Findings, claims.UserID)
	if err != nil {
		return caseError(c, err)
	}

	return utils.Success(c, amlCase)
}

// MarkReported records the external filing reference on a case.
func (h *AmlHandler) MarkReported(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid case ID")
	}

	var input struct {
		Reference string `json:"reference"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	amlCase, err := h.amlService.MarkReported(c.UserContext(), uint(id), input.Reference, claims.UserID)
	if err != nil {
		return caseError(c, err)
	}

	return utils.Success(c, amlCase)
}

// CreateReport drafts a CTR/STR report against a case.
func (h *AmlHandler) CreateReport(c *fiber.Ctx) error {
	var input struct {
		CaseID     uint        `json:"case_id"`
		ReportType string      `json:"report_type"`
		Amount     *float64    `json:"amount"`
		ReportData models.JSON `json:"report_data"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	report, err := h.amlService.CreateReport(c.UserContext(), aml.CreateReportInput{
		CaseID:     input.CaseID,
		ReportType: input.ReportType,
		Amount:     input.Amount,
		ReportData: input.ReportData,
		CreatedBy:  claims.UserID,
	})
	if err != nil {
		var violation *aml.ThresholdViolationError
		switch {
		case errors.As(err, &violation):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":     violation.Error(),
				"threshold": violation.Threshold,
				"amount":    violation.Amount,
			})
		case errors.Is(err, aml.ErrInvalidReportType):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, aml.ErrCaseClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return utils.InternalError(c, "Failed to create report")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, report)
}

func (h *AmlHandler) SubmitReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid report ID")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	report, err := h.amlService.SubmitReport(c.UserContext(), uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, aml.ErrReportNotDraft) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return utils.InternalError(c, "Failed to submit report")
	}

	return utils.Success(c, report)
}

func (h *AmlHandler) GetReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid report ID")
	}

	report, err := h.amlService.GetReport(c.UserContext(), uint(id))
	if err != nil {
		return utils.NotFound(c, "Report not found")
	}

	return utils.Success(c, report)
}
