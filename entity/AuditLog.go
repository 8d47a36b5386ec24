package entity

import (
	"time"
)

// AuditLog เขียนแบบ fire-and-forget จาก AuditService
type AuditLog struct {
	ID         string    `gorm:"primaryKey" json:"id"` // uuid
	EntityType string    `gorm:"index:idx_audit_entity" json:"entityType"`
	EntityID   uint      `gorm:"index:idx_audit_entity" json:"entityId"`
	Action     string    `gorm:"not null" json:"action"`
	Diff       string    `json:"diff"` // JSON
	ActorID    *uint     `json:"actorId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
