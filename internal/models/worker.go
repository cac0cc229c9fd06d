package models

import "time"

// Worker statuses.
const (
	// WorkerStatusActive marks a worker available for dispatch.
	WorkerStatusActive = "active"
	// WorkerStatusInactive marks a worker that left the tenant.
	WorkerStatusInactive = "inactive"
	// WorkerStatusSuspended marks a temporarily suspended worker.
	WorkerStatusSuspended = "suspended"
)

// Worker represents a field technician employed by a tenant.
type Worker struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`       // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"`  // Owning tenant.

	Name  string `gorm:"type:text;not null"` // Display name.
	Email string `gorm:"type:text"`          // Contact email.
	Phone string `gorm:"type:text"`          // Contact phone.

	Status string `gorm:"type:text;not null;default:'active';index"` // Employment status.

	Jobs []Job `gorm:"foreignKey:WorkerID"` // Assigned jobs.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
