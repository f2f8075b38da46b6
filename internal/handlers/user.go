package handlers

import (
	"strconv"

	"localpay/internal/services/user"
	"localpay/internal/utils"
	"localpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUser creates a new account.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Required("name", input.Name)
	v.Email("email", input.Email)
	v.Phone("phone", input.Phone)
	v.Password("password", input.Password)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	created, err := h.userService.Create(c.UserContext(), user.CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"id":    created.ID,
		"email": created.Email,
		"role":  created.Role,
	})
}

// GetProfile returns the authenticated user's account.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	u, err := h.userService.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"role":       u.Role,
		"kyc_status": u.KYCStatus,
	})
}

// SubmitKYC accepts an identity document from the authenticated user.
func (h *UserHandler) SubmitKYC(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		DocumentID string `json:"document_id"`
		ScanURL    string `json:"scan_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	kyc, err := h.userService.SubmitKYC(c.UserContext(), claims.UserID, user.KYCInput{
		DocumentID: input.DocumentID,
		ScanURL:    input.ScanURL,
	})
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"id":     kyc.ID,
		"status": kyc.Status,
	})
}

// GetKYC returns a user's latest verification submission; compliance
// staff only.
func (h *UserHandler) GetKYC(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	kyc, err := h.userService.GetKYC(c.UserContext(), uint(userID))
	if err != nil {
		return utils.NotFound(c, "KYC verification not found")
	}

	return utils.Success(c, kyc)
}

// SetKYCStatus records the outcome of identity verification; compliance
// staff only.
func (h *UserHandler) SetKYCStatus(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	u, err := h.userService.SetKYCStatus(c.UserContext(), uint(userID), input.Status, claims.UserID)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"id":         u.ID,
		"kyc_status": u.KYCStatus,
	})
}

// GetTransactions lists the authenticated user's transactions.
func (h *UserHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)
	txs, total, err := h.userService.GetTransactions(c.UserContext(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(txs, p))
}
