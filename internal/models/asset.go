package models

import "time"

// Asset statuses.
const (
	// AssetStatusActive marks an asset in service.
	AssetStatusActive = "active"
	// AssetStatusMaintenance marks an asset under maintenance.
	AssetStatusMaintenance = "maintenance"
	// AssetStatusRetired marks an asset taken out of service.
	AssetStatusRetired = "retired"
)

// Asset represents a tracked piece of equipment owned by a tenant.
type Asset struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`      // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"` // Owning tenant.

	Name         string `gorm:"type:text;not null"` // Display name.
	SerialNumber string `gorm:"type:text;index"`    // Manufacturer serial number.

	Status string `gorm:"type:text;not null;default:'active';index"` // Service status.

	LocationID *uint64   `gorm:"index"`                 // Current location ID.
	Location   *Location `gorm:"foreignKey:LocationID"` // Current location.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
