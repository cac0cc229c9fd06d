package models

import "time"

// User represents a tenant-scoped back-office account.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index;uniqueIndex:idx_users_tenant_email"` // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"`                               // Owning tenant.

	Name     string `gorm:"type:text;not null"`                                   // Display name.
	Email    string `gorm:"type:text;not null;uniqueIndex:idx_users_tenant_email"` // Email address, unique per tenant.
	Password string `gorm:"type:text;not null"`                                   // Hashed password.

	RoleID *uint64 `gorm:"index"`              // Assigned role ID.
	Role   *Role   `gorm:"foreignKey:RoleID"`  // Assigned role.

	IsActive bool `gorm:"not null;default:true"` // Counts toward the users quota when true.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
