package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeCharge     = "charge"
	TransactionTypePayment    = "payment"
	TransactionTypeQRPayment  = "qr_payment"
	TransactionTypeRefund     = "refund"
	TransactionTypeSettlement = "settlement"
	TransactionTypeTransfer   = "transfer"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction is the platform payment record the compliance engines evaluate.
// Amounts are in KRW.
type Transaction struct {
	ID            uint    `gorm:"primarykey"`
	Type          string  `gorm:"not null"`
	UserID        uint    `gorm:"not null;index"`
	MerchantID    *uint   `gorm:"index"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"default:'KRW'"`
	Status        string  `gorm:"not null;default:'pending'"`
	Description   string
	TransactionID string    `gorm:"uniqueIndex"` // External reference ID
	Metadata      JSON      `gorm:"type:jsonb"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TransactionStats aggregates a subject's transaction history for the
// composite risk scorer.
type TransactionStats struct {
	Count       int64   `json:"count"`
	TotalVolume float64 `json:"total_volume"`
	AvgAmount   float64 `json:"avg_amount"`
	MaxAmount   float64 `json:"max_amount"`
}
