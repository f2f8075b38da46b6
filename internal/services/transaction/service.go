// Package transaction ingests payment records and feeds them through fraud
// evaluation.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localpay/internal/models"
	"localpay/internal/repositories"
	"localpay/internal/services/fds"
	"localpay/internal/validation"

	"go.uber.org/zap"
)

var (
	ErrInvalidAmount = errors.New("transaction amount out of range")
	ErrInvalidType   = errors.New("invalid transaction type")
)

var validTypes = map[string]bool{
	models.TransactionTypeCharge:     true,
	models.TransactionTypePayment:    true,
	models.TransactionTypeQRPayment:  true,
	models.TransactionTypeRefund:     true,
	models.TransactionTypeSettlement: true,
	models.TransactionTypeTransfer:   true,
}

// CreateInput describes an incoming transaction record.
type CreateInput struct {
	Type        string
	UserID      uint
	MerchantID  *uint
	Amount      float64
	Description string
	Metadata    models.JSON
}

// Result pairs the stored transaction with its fraud evaluation.
type Result struct {
	Transaction *models.Transaction `json:"transaction"`
	Evaluation  *fds.Evaluation     `json:"evaluation,omitempty"`
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Result, error)
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

type service struct {
	repo   repositories.TransactionRepository
	fds    fds.Service
	logger *zap.Logger
}

func NewService(repo repositories.TransactionRepository, fdsService fds.Service, logger *zap.Logger) Service {
	if repo == nil {
		panic("transaction.NewService: nil repository")
	}
	if fdsService == nil {
		panic("transaction.NewService: nil fds service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, fds: fdsService, logger: logger.Named("transaction")}
}

// Create stores the transaction and runs fraud evaluation on it. The
// record is kept even when evaluation fails; detection must never block
// payment ingestion.
func (s *service) Create(ctx context.Context, input CreateInput) (*Result, error) {
	if !validTypes[input.Type] {
		return nil, ErrInvalidType
	}
	if input.Amount < validation.MinTransactionAmount || input.Amount > validation.MaxTransactionAmount {
		return nil, ErrInvalidAmount
	}

	tx := &models.Transaction{
		Type:          input.Type,
		UserID:        input.UserID,
		MerchantID:    input.MerchantID,
		Amount:        input.Amount,
		Currency:      "KRW",
		Status:        models.TransactionStatusCompleted,
		Description:   input.Description,
		TransactionID: fmt.Sprintf("TX-%d-%d", time.Now().UnixNano(), input.UserID),
		Metadata:      input.Metadata,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	result := &Result{Transaction: tx}

	evaluation, err := s.fds.EvaluateTransaction(ctx, tx)
	if err != nil {
		s.logger.Error("fraud evaluation failed",
			zap.Uint("transaction_id", tx.ID),
			zap.Error(err))
		return result, nil
	}
	result.Evaluation = evaluation

	return result, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}
