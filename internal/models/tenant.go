package models

import "time"

// Tenant represents an isolated organization whose resources are
// quota-tracked independently of others.
type Tenant struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name string `gorm:"type:text;not null;uniqueIndex"` // Display name.
	Slug string `gorm:"type:text;not null;uniqueIndex"` // URL-safe identifier.
	Plan string `gorm:"type:text;not null;default:'standard'"` // Subscribed plan name.

	Active bool `gorm:"not null;default:true"` // Whether the tenant is enabled.

	Users       []User        `gorm:"foreignKey:TenantID"` // Related user accounts.
	Workers     []Worker      `gorm:"foreignKey:TenantID"` // Related field workers.
	Jobs        []Job         `gorm:"foreignKey:TenantID"` // Related jobs.
	Assets      []Asset       `gorm:"foreignKey:TenantID"` // Related assets.
	Attachments []Attachment  `gorm:"foreignKey:TenantID"` // Related attachments.
	Quotas      []QuotaRecord `gorm:"foreignKey:TenantID"` // Related quota records.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
