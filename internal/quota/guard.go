package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atlasfield/fieldops/internal/models"
)

// QuotaExceededError is the reason carried by a denied admission. It is a
// normal business outcome, not a system failure.
type QuotaExceededError struct {
	ResourceType string
	Limit        int64
	Usage        int64
}

func (e *QuotaExceededError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("quota exceeded for %s (usage %d of limit %d)", e.ResourceType, e.Usage, e.Limit)
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool
	Reason  *QuotaExceededError // Set when the check denied the operation.
}

// Allow is the permissive decision.
var Allow = Decision{Allowed: true}

// Guard gates resource creation against quota records and keeps the cached
// usage counter approximately fresh. It is a best-effort layer: bulk
// imports and direct data edits bypass it, and reconciliation corrects the
// resulting drift.
type Guard struct {
	db *gorm.DB
}

// NewGuard constructs a Guard.
func NewGuard(db *gorm.DB) *Guard {
	if db == nil {
		return nil
	}
	return &Guard{db: db}
}

// CheckAndReserve decides whether one more unit of the resource may be
// created for the tenant. Tenants without a provisioned record for the type
// are unrestricted, and records marked inactive admit unconditionally.
// The check is not serializable against concurrent requests; brief
// overshoot is an accepted soft-limit semantic.
func (g *Guard) CheckAndReserve(ctx context.Context, tenantID uint64, resourceType string) (Decision, error) {
	if g == nil || g.db == nil {
		return Decision{}, errors.New("quota: guard not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var record models.QuotaRecord
	errFind := g.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
		First(&record).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return Allow, nil
	}
	if errFind != nil {
		return Decision{}, errFind
	}

	if record.Status == models.QuotaStatusInactive {
		return Allow, nil
	}

	// Evaluate the prospective count: at limit=5 usage=5 the sixth unit
	// would land at 6 > 5 and must be denied even though the stored status
	// is still active.
	if Evaluate(record.Limit, record.Usage+1).Status == models.QuotaStatusExceeded {
		return Decision{Reason: &QuotaExceededError{
			ResourceType: resourceType,
			Limit:        record.Limit,
			Usage:        record.Usage,
		}}, nil
	}
	return Allow, nil
}

// IncrementUsage adds delta to the cached usage counter and re-evaluates
// the status, persisting both in one transaction. Callers invoke it after
// the guarded resource committed; a bookkeeping failure here must not roll
// back the business operation.
func (g *Guard) IncrementUsage(ctx context.Context, tenantID uint64, resourceType string, delta int64) error {
	return g.adjustUsage(ctx, tenantID, resourceType, delta)
}

// DecrementUsage subtracts delta from the cached usage counter, clamped at
// zero, and re-evaluates the status.
func (g *Guard) DecrementUsage(ctx context.Context, tenantID uint64, resourceType string, delta int64) error {
	return g.adjustUsage(ctx, tenantID, resourceType, -delta)
}

func (g *Guard) adjustUsage(ctx context.Context, tenantID uint64, resourceType string, delta int64) error {
	if g == nil || g.db == nil {
		return errors.New("quota: guard not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if delta == 0 {
		return nil
	}

	apply := func() error {
		return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var record models.QuotaRecord
			errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
				First(&record).Error
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				// No record means the type is not tracked for this tenant.
				return nil
			}
			if errFind != nil {
				return errFind
			}

			next := record.Usage + delta
			if next < 0 {
				next = 0
			}
			status := record.Status
			if status != models.QuotaStatusInactive {
				status = Evaluate(record.Limit, next).Status
			}
			return tx.Model(&models.QuotaRecord{}).
				Where("id = ?", record.ID).
				Updates(map[string]any{
					"usage_count": next,
					"status":      status,
					"updated_at":  time.Now().UTC(),
				}).Error
		})
	}

	errApply := apply()
	if errApply != nil && isConflict(errApply) {
		log.WithError(errApply).Warnf("quota: usage adjust conflict, retrying (tenant=%d type=%s)", tenantID, resourceType)
		errApply = apply()
	}
	if errApply != nil {
		return fmt.Errorf("quota: adjust usage: %w", errApply)
	}
	return nil
}

// isConflict reports whether an error looks like a concurrent-write
// conflict worth a single retry.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"database is locked",
		"database table is locked",
		"busy",
		"deadlock",
		"could not serialize",
		"concurrent update",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
