package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC statuses
const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Name                string `gorm:"not null"`
	Phone               string `gorm:"uniqueIndex;not null"`
	Role                string `gorm:"default:'user'"`
	Status              string `gorm:"default:'active'"`
	KYCStatus           string `gorm:"default:'pending'"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
}

// IsKYCVerified reports whether the user has passed identity verification.
func (u *User) IsKYCVerified() bool {
	return u.KYCStatus == KYCStatusVerified
}
