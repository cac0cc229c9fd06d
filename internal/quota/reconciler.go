package quota

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
)

// defaultReconcileConcurrency bounds the tenant fan-out of a full run.
const defaultReconcileConcurrency = 5

// ReportEntry records one corrected counter.
type ReportEntry struct {
	TenantID     uint64 `json:"tenant_id"`
	ResourceType string `json:"resource_type"`
	OldUsage     int64  `json:"old_usage"`
	NewUsage     int64  `json:"new_usage"`
	Status       string `json:"status"`
}

// ReportError records a tenant whose reconciliation failed.
type ReportError struct {
	TenantID uint64 `json:"tenant_id"`
	Error    string `json:"error"`
}

// Report summarizes a reconciliation run.
type Report struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Tenants    int           `json:"tenants"`
	Entries    []ReportEntry `json:"entries"`
	Errors     []ReportError `json:"errors"`
}

// Drift counts entries whose stored usage disagreed with the calculated
// usage.
func (r *Report) Drift() int {
	if r == nil {
		return 0
	}
	drift := 0
	for _, entry := range r.Entries {
		if entry.OldUsage != entry.NewUsage {
			drift++
		}
	}
	return drift
}

// Reconciler re-syncs stored quota usage against calculated truth. A full
// run processes tenants independently; one tenant's failure never aborts
// the batch.
type Reconciler struct {
	db             *gorm.DB
	calculator     *Calculator
	maxConcurrency int
}

// NewReconciler constructs a Reconciler.
func NewReconciler(db *gorm.DB, calculator *Calculator, maxConcurrency int) *Reconciler {
	if db == nil || calculator == nil {
		return nil
	}
	if maxConcurrency <= 0 {
		maxConcurrency = defaultReconcileConcurrency
	}
	return &Reconciler{db: db, calculator: calculator, maxConcurrency: maxConcurrency}
}

// Reconcile re-syncs one tenant and returns the per-record report.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID uint64) (*Report, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("quota: reconciler not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	report := &Report{StartedAt: time.Now().UTC()}
	entries, errTenant := r.reconcileTenant(ctx, tenantID)
	if errTenant != nil {
		return nil, errTenant
	}
	report.Tenants = 1
	report.Entries = entries
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// ReconcileAll re-syncs every tenant with bounded concurrency. Per-tenant
// failures are collected into the report and logged.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*Report, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("quota: reconciler not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var tenantIDs []uint64
	if errFind := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Order("id ASC").
		Pluck("id", &tenantIDs).Error; errFind != nil {
		return nil, errFind
	}

	report := &Report{StartedAt: time.Now().UTC(), Tenants: len(tenantIDs)}
	sem := make(chan struct{}, r.maxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, tenantID := range tenantIDs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		id := tenantID
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			entries, errTenant := r.reconcileTenant(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if errTenant != nil {
				log.WithError(errTenant).Warnf("quota: reconcile failed (tenant=%d)", id)
				report.Errors = append(report.Errors, ReportError{TenantID: id, Error: errTenant.Error()})
				return
			}
			report.Entries = append(report.Entries, entries...)
		}()
	}
	wg.Wait()

	sort.Slice(report.Entries, func(i, j int) bool {
		if report.Entries[i].TenantID != report.Entries[j].TenantID {
			return report.Entries[i].TenantID < report.Entries[j].TenantID
		}
		return report.Entries[i].ResourceType < report.Entries[j].ResourceType
	})
	sort.Slice(report.Errors, func(i, j int) bool {
		return report.Errors[i].TenantID < report.Errors[j].TenantID
	})
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// reconcileTenant recomputes every tracked resource type that has an
// existing quota record. Absent records are skipped; only provisioning
// creates them.
func (r *Reconciler) reconcileTenant(ctx context.Context, tenantID uint64) ([]ReportEntry, error) {
	var records []models.QuotaRecord
	if errFind := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type IN ?", tenantID, models.TrackedResourceTypes).
		Order("resource_type ASC").
		Find(&records).Error; errFind != nil {
		return nil, errFind
	}
	if len(records) == 0 {
		// Verify the tenant itself so a bogus ID still fails loudly.
		if errExists := r.calculator.ensureTenantExists(ctx, tenantID); errExists != nil {
			return nil, errExists
		}
		return nil, nil
	}

	now := time.Now()
	entries := make([]ReportEntry, 0, len(records))
	for _, record := range records {
		usage, errCalc := r.calculator.Calculate(ctx, tenantID, record.ResourceType)
		if errCalc != nil {
			return nil, errCalc
		}

		status := record.Status
		if status != models.QuotaStatusInactive {
			status = Evaluate(record.Limit, usage).Status
		}

		updates := map[string]any{
			"usage_count": usage,
			"status":      status,
			"updated_at":  now.UTC(),
		}
		if record.ResetAt != nil && record.ResetAt.Before(now) {
			_, nextMonth := currentMonthWindow(now)
			updates["reset_at"] = nextMonth
		}

		if errUpdate := r.db.WithContext(ctx).
			Model(&models.QuotaRecord{}).
			Where("id = ?", record.ID).
			Updates(updates).Error; errUpdate != nil {
			return nil, errUpdate
		}

		entries = append(entries, ReportEntry{
			TenantID:     tenantID,
			ResourceType: record.ResourceType,
			OldUsage:     record.Usage,
			NewUsage:     usage,
			Status:       status,
		})
	}
	return entries, nil
}
