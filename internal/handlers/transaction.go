package handlers

import (
	"errors"
	"strconv"

	"localpay/internal/models"
	"localpay/internal/services/transaction"
	"localpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	txService transaction.Service
}

func NewTransactionHandler(txService transaction.Service) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// CreateTransaction ingests a payment record and runs fraud evaluation on
// it. The evaluation outcome is returned alongside the stored record.
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var input struct {
		Type        string      `json:"type"`
		MerchantID  *uint       `json:"merchant_id"`
		Amount      float64     `json:"amount"`
		Description string      `json:"description"`
		Metadata    models.JSON `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.txService.Create(c.UserContext(), transaction.CreateInput{
		Type:        input.Type,
		UserID:      claims.UserID,
		MerchantID:  input.MerchantID,
		Amount:      input.Amount,
		Description: input.Description,
		Metadata:    input.Metadata,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidAmount) || errors.Is(err, transaction.ErrInvalidType) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to create transaction")
	}

	return utils.Respond(c, fiber.StatusCreated, result)
}

// GetTransaction returns a single transaction; compliance staff only.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction ID")
	}

	tx, err := h.txService.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return utils.NotFound(c, "Transaction not found")
	}

	return utils.Success(c, tx)
}
