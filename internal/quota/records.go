package quota

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atlasfield/fieldops/internal/models"
)

// ErrRecordNotFound indicates no quota record exists for the tenant and
// resource type.
var ErrRecordNotFound = errors.New("quota: record not found")

// Store exposes read and administrative operations on quota records.
// Records are only ever created by tenant provisioning; the store mutates
// existing rows.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// Get returns the quota record for one tenant and resource type, or nil
// when absent.
func (s *Store) Get(ctx context.Context, tenantID uint64, resourceType string) (*models.QuotaRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("quota: store not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var record models.QuotaRecord
	errFind := s.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
		First(&record).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, errFind
	}
	return &record, nil
}

// List returns all quota records for a tenant ordered by resource type.
func (s *Store) List(ctx context.Context, tenantID uint64) ([]models.QuotaRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("quota: store not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var records []models.QuotaRecord
	if errFind := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("resource_type ASC").
		Find(&records).Error; errFind != nil {
		return nil, errFind
	}
	return records, nil
}

// SetLimit applies an administrative limit override and re-evaluates the
// status against the current usage in the same transaction.
func (s *Store) SetLimit(ctx context.Context, tenantID uint64, resourceType string, limit int64) (*models.QuotaRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("quota: store not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var updated models.QuotaRecord
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.QuotaRecord
		errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
			First(&record).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		if errFind != nil {
			return errFind
		}

		status := record.Status
		if status != models.QuotaStatusInactive {
			status = Evaluate(limit, record.Usage).Status
		}
		if errUpdate := tx.Model(&models.QuotaRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]any{
				"limit_value": limit,
				"status":      status,
				"updated_at":  time.Now().UTC(),
			}).Error; errUpdate != nil {
			return errUpdate
		}
		record.Limit = limit
		record.Status = status
		updated = record
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &updated, nil
}

// SetTrackingEnabled toggles quota tracking for one record. Disabling sets
// the status to inactive; enabling re-evaluates it from limit and usage.
func (s *Store) SetTrackingEnabled(ctx context.Context, tenantID uint64, resourceType string, enabled bool) (*models.QuotaRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("quota: store not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var updated models.QuotaRecord
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.QuotaRecord
		errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
			First(&record).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		if errFind != nil {
			return errFind
		}

		status := models.QuotaStatusInactive
		if enabled {
			status = Evaluate(record.Limit, record.Usage).Status
		}
		if errUpdate := tx.Model(&models.QuotaRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]any{
				"status":     status,
				"updated_at": time.Now().UTC(),
			}).Error; errUpdate != nil {
			return errUpdate
		}
		record.Status = status
		updated = record
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return &updated, nil
}
