package audit

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
)

// Audit action keys for quota-relevant events.
const (
	ActionTenantProvisioned = "tenant.provisioned"
	ActionQuotaLimitUpdated = "quota.limit_updated"
	ActionQuotaDenied       = "quota.denied"
	ActionQuotaReconciled   = "quota.reconciled"
)

// Entry describes one audit event.
type Entry struct {
	TenantID   *uint64
	Actor      string
	Action     string
	EntityType string
	EntityID   uint64
	Detail     any
}

// Recorder appends audit events. Recording is best-effort: a failed write
// is logged and never propagated to the caller.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a Recorder.
func NewRecorder(db *gorm.DB) *Recorder {
	if db == nil {
		return nil
	}
	return &Recorder{db: db}
}

// Record persists one audit entry.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.db == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := entry.Actor
	if actor == "" {
		actor = "system"
	}

	detail := datatypes.JSON([]byte("{}"))
	if entry.Detail != nil {
		payload, errMarshal := json.Marshal(entry.Detail)
		if errMarshal != nil {
			log.WithError(errMarshal).Warnf("audit: marshal detail failed (action=%s)", entry.Action)
		} else {
			detail = datatypes.JSON(payload)
		}
	}

	row := models.AuditLog{
		TenantID:   entry.TenantID,
		Actor:      actor,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     detail,
	}
	if errCreate := r.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		log.WithError(errCreate).Warnf("audit: record failed (action=%s)", entry.Action)
	}
}
