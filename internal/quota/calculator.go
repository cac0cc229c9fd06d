package quota

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
)

// ErrTenantNotFound indicates an operation referenced an unknown tenant.
var ErrTenantNotFound = errors.New("quota: tenant not found")

// DefaultAverageFileSizeMB is the assumed attachment size used by the
// storage approximation when none is configured.
const DefaultAverageFileSizeMB = 2

// Calculator computes authoritative usage counts by querying the owning
// resource tables. It never mutates state.
type Calculator struct {
	db                *gorm.DB
	averageFileSizeMB int64
}

// NewCalculator constructs a Calculator.
func NewCalculator(db *gorm.DB, averageFileSizeMB int64) *Calculator {
	if db == nil {
		return nil
	}
	if averageFileSizeMB <= 0 {
		averageFileSizeMB = DefaultAverageFileSizeMB
	}
	return &Calculator{db: db, averageFileSizeMB: averageFileSizeMB}
}

// Calculate returns the current consumption for one tenant and resource
// type. Unknown resource types yield zero rather than an error; only a
// missing tenant fails.
func (c *Calculator) Calculate(ctx context.Context, tenantID uint64, resourceType string) (int64, error) {
	if c == nil || c.db == nil {
		return 0, errors.New("quota: calculator not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if errExists := c.ensureTenantExists(ctx, tenantID); errExists != nil {
		return 0, errExists
	}

	switch resourceType {
	case models.ResourceTypeUsers:
		return c.count(ctx, &models.User{}, "tenant_id = ? AND is_active = ?", tenantID, true)
	case models.ResourceTypeWorkers:
		return c.count(ctx, &models.Worker{}, "tenant_id = ? AND status = ?", tenantID, models.WorkerStatusActive)
	case models.ResourceTypeJobsPerMonth:
		monthStart, nextMonth := currentMonthWindow(time.Now())
		return c.count(ctx, &models.Job{},
			"tenant_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			tenantID, models.OpenJobStatuses, monthStart, nextMonth)
	case models.ResourceTypeAssets:
		return c.count(ctx, &models.Asset{}, "tenant_id = ? AND status = ?", tenantID, models.AssetStatusActive)
	case models.ResourceTypeStorageMB:
		// Approximation: attachment count times an assumed average size.
		// Exact byte accounting stays behind this method so it can replace
		// the estimate without touching the guard or evaluator.
		attachments, errCount := c.count(ctx, &models.Attachment{}, "tenant_id = ?", tenantID)
		if errCount != nil {
			return 0, errCount
		}
		return attachments * c.averageFileSizeMB, nil
	default:
		log.Warnf("quota: no counting rule for resource type %q (tenant=%d)", resourceType, tenantID)
		return 0, nil
	}
}

func (c *Calculator) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var total int64
	if errCount := c.db.WithContext(ctx).
		Model(model).
		Where(query, args...).
		Count(&total).Error; errCount != nil {
		return 0, errCount
	}
	return total, nil
}

func (c *Calculator) ensureTenantExists(ctx context.Context, tenantID uint64) error {
	var row struct {
		ID uint64
	}
	errFind := c.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Select("id").
		Where("id = ?", tenantID).
		Take(&row).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return ErrTenantNotFound
	}
	return errFind
}

// currentMonthWindow returns the half-open calendar month interval
// containing t, in the server's local time.
func currentMonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
