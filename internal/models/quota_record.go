package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resource types tracked or enforceable per tenant.
const (
	// ResourceTypeUsers counts active user accounts.
	ResourceTypeUsers = "users"
	// ResourceTypeWorkers counts active field workers.
	ResourceTypeWorkers = "workers"
	// ResourceTypeJobsPerMonth counts open jobs created in the current month.
	ResourceTypeJobsPerMonth = "jobs_per_month"
	// ResourceTypeAssets counts active assets.
	ResourceTypeAssets = "assets"
	// ResourceTypeStorageMB approximates attachment storage in megabytes.
	ResourceTypeStorageMB = "storage_mb"
	// ResourceTypeAPICalls counts API invocations.
	ResourceTypeAPICalls = "api_calls"
	// ResourceTypeForms counts form templates.
	ResourceTypeForms = "forms"
	// ResourceTypeNotifications counts dispatched notifications.
	ResourceTypeNotifications = "notifications"
	// ResourceTypeAttachments counts uploaded attachments.
	ResourceTypeAttachments = "attachments"
	// ResourceTypeSignatures counts captured signatures.
	ResourceTypeSignatures = "signatures"
)

// Quota record statuses.
const (
	// QuotaStatusActive marks consumption below the warning threshold.
	QuotaStatusActive = "active"
	// QuotaStatusWarning marks consumption at or above the warning threshold.
	QuotaStatusWarning = "warning"
	// QuotaStatusExceeded marks consumption above the limit.
	QuotaStatusExceeded = "exceeded"
	// QuotaStatusInactive marks quota tracking as disabled.
	QuotaStatusInactive = "inactive"
)

// TrackedResourceTypes lists the resource types backed by counting rules.
var TrackedResourceTypes = []string{
	ResourceTypeUsers,
	ResourceTypeWorkers,
	ResourceTypeJobsPerMonth,
	ResourceTypeAssets,
	ResourceTypeStorageMB,
}

// QuotaRecord stores the limit/usage/status tuple for one tenant and
// resource type. Usage is a cached projection; the owning resource tables
// remain the source of truth.
type QuotaRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	TenantID uint64  `gorm:"not null;uniqueIndex:idx_quota_tenant_resource"` // Owning tenant ID.
	Tenant   *Tenant `gorm:"foreignKey:TenantID"`                            // Owning tenant.

	ResourceType string `gorm:"type:text;not null;uniqueIndex:idx_quota_tenant_resource"` // Tracked resource type.

	Limit int64 `gorm:"column:limit_value;not null;default:0"` // Negative = unlimited, zero = blocked.
	Usage int64 `gorm:"column:usage_count;not null;default:0"` // Last-known consumption count.

	Status string `gorm:"type:text;not null;default:'active';index"` // Derived quota status.

	ResetAt *time.Time `gorm:"index"` // Next periodic reset, when applicable.

	Metadata datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Free-form annotations.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (QuotaRecord) TableName() string {
	return "quota_records"
}
