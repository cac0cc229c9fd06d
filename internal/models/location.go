package models

import "time"

// Location represents a service site owned by a tenant.
type Location struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`      // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"` // Owning tenant.

	Name    string `gorm:"type:text;not null"` // Display name.
	Address string `gorm:"type:text"`          // Street address.
	City    string `gorm:"type:text"`          // City.
	Region  string `gorm:"type:text"`          // State or region.

	Latitude  *float64 `gorm:"type:decimal(10,7)"` // Geocoded latitude.
	Longitude *float64 `gorm:"type:decimal(10,7)"` // Geocoded longitude.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
