package models

import (
	"time"
)

// AuditLog is an append-only record of compliance actions. Entries are never
// updated or deleted.
type AuditLog struct {
	ID         string `gorm:"primarykey;type:uuid"`
	ActorID    uint   `gorm:"index"`
	Action     string `gorm:"not null;index"`
	EntityType string `gorm:"not null"`
	EntityID   string
	Details    JSON `gorm:"type:jsonb"`
	IPAddress  string
	CreatedAt  time.Time `gorm:"index"`
}
