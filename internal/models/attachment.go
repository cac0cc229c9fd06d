package models

import "time"

// Attachment stores metadata for an uploaded file. Upload mechanics live
// outside this module; only the bookkeeping needed for storage quotas is
// kept here.
type Attachment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`      // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"` // Owning tenant.

	FileName    string `gorm:"type:text;not null"` // Original file name.
	ContentType string `gorm:"type:text"`          // MIME type.
	SizeBytes   int64  `gorm:"not null;default:0"` // File size in bytes.
	StoragePath string `gorm:"type:text;not null"` // Backend storage key.

	JobID   *uint64 `gorm:"index"`              // Related job ID.
	Job     *Job    `gorm:"foreignKey:JobID"`   // Related job.
	AssetID *uint64 `gorm:"index"`              // Related asset ID.
	Asset   *Asset  `gorm:"foreignKey:AssetID"` // Related asset.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
