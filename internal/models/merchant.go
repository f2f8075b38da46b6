package models

import (
	"time"
)

// Merchant verification statuses
const (
	MerchantStatusPending   = "pending"
	MerchantStatusVerified  = "verified"
	MerchantStatusRejected  = "rejected"
	MerchantStatusSuspended = "suspended"
)

type Merchant struct {
	ID                 uint   `gorm:"primarykey"`
	UserID             uint   `gorm:"uniqueIndex;not null"`
	BusinessName       string `gorm:"not null"`
	BusinessType       string `gorm:"not null"`
	BusinessNumber     string `gorm:"uniqueIndex"`
	BusinessAddress    string
	VerificationStatus string  `gorm:"default:'pending'"`
	RiskScore          int     `gorm:"default:0"`
	MonthlyVolume      float64 `gorm:"default:0"`
	Metadata           JSON    `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsVerified reports whether the merchant completed business verification.
func (m *Merchant) IsVerified() bool {
	return m.VerificationStatus == MerchantStatusVerified
}
