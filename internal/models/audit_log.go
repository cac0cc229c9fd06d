package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog stores an append-only trail of administrative and quota events.
type AuditLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID *uint64 `gorm:"index"` // Affected tenant ID, when tenant-scoped.

	Actor      string `gorm:"type:text;not null;default:'system'"` // Acting principal.
	Action     string `gorm:"type:text;not null;index"`            // Event action key.
	EntityType string `gorm:"type:text;not null"`                  // Affected entity type.
	EntityID   uint64 `gorm:"not null;default:0"`                  // Affected entity ID.

	Detail datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Event payload.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Event timestamp.
}

// TableName overrides the default table name.
func (AuditLog) TableName() string {
	return "audit_logs"
}
