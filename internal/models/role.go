package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role groups permissions assignable to tenant users.
type Role struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index;uniqueIndex:idx_roles_tenant_name"` // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"`                              // Owning tenant.

	Name        string         `gorm:"type:text;not null;uniqueIndex:idx_roles_tenant_name"` // Role name, unique per tenant.
	Permissions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`                     // Granted permission keys.

	Users []User `gorm:"foreignKey:RoleID"` // Users holding this role.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
