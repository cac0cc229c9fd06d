package models

import (
	"time"

	"gorm.io/datatypes"
)

// FormTemplate stores a tenant-defined form schema. Rendering is handled by
// the presentation layer; this module only persists the schema.
type FormTemplate struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`      // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"` // Owning tenant.

	Name   string         `gorm:"type:text;not null"`               // Display name.
	Schema datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Form schema payload.

	Published bool `gorm:"not null;default:false"` // Whether the form is live.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
