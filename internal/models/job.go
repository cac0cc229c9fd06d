package models

import "time"

// Job statuses.
const (
	// JobStatusPending marks a job awaiting assignment.
	JobStatusPending = "pending"
	// JobStatusAssigned marks a job assigned to a worker.
	JobStatusAssigned = "assigned"
	// JobStatusInProgress marks a job being worked.
	JobStatusInProgress = "in_progress"
	// JobStatusCompleted marks a finished job.
	JobStatusCompleted = "completed"
	// JobStatusCancelled marks a cancelled job.
	JobStatusCancelled = "cancelled"
)

// OpenJobStatuses lists the statuses that count toward the monthly job quota.
var OpenJobStatuses = []string{JobStatusPending, JobStatusAssigned, JobStatusInProgress}

// Job represents a work order scheduled for a tenant.
type Job struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;index"`      // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"` // Owning tenant.

	Title       string `gorm:"type:text;not null"` // Short description.
	Description string `gorm:"type:text"`          // Detailed description.

	Status string `gorm:"type:text;not null;default:'pending';index"` // Job lifecycle status.

	WorkerID *uint64 `gorm:"index"`               // Assigned worker ID.
	Worker   *Worker `gorm:"foreignKey:WorkerID"` // Assigned worker.

	LocationID *uint64   `gorm:"index"`                 // Service location ID.
	Location   *Location `gorm:"foreignKey:LocationID"` // Service location.

	ScheduledAt *time.Time `gorm:"index"` // Planned start time.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
