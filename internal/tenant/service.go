package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
	"github.com/atlasfield/fieldops/internal/quota"
)

// ErrTenantExists indicates a tenant with the same name or slug already
// exists.
var ErrTenantExists = errors.New("tenant: already exists")

// UnlimitedQuota marks a resource type without a ceiling.
const UnlimitedQuota int64 = -1

// CreateParams holds inputs for tenant provisioning.
type CreateParams struct {
	Name string
	Slug string
	Plan string
}

// Service provisions and manages tenants. Creating a tenant seeds one
// quota record per tracked resource type; nothing else creates records.
type Service struct {
	db            *gorm.DB
	defaultLimits map[string]int64
}

// NewService constructs a Service. defaultLimits maps resource types to
// plan-default limits; missing types default to unlimited.
func NewService(db *gorm.DB, defaultLimits map[string]int64) *Service {
	if db == nil {
		return nil
	}
	return &Service{db: db, defaultLimits: defaultLimits}
}

// Create provisions a tenant together with its quota records in one
// transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Tenant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("tenant: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, errors.New("tenant: name is required")
	}
	slug := strings.TrimSpace(params.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	plan := strings.TrimSpace(params.Plan)
	if plan == "" {
		plan = "standard"
	}

	row := models.Tenant{Name: name, Slug: slug, Plan: plan, Active: true}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if errCount := tx.Model(&models.Tenant{}).
			Where("name = ? OR slug = ?", name, slug).
			Count(&existing).Error; errCount != nil {
			return errCount
		}
		if existing > 0 {
			return ErrTenantExists
		}
		if errCreate := tx.Create(&row).Error; errCreate != nil {
			return errCreate
		}
		return s.provisionQuotaRecords(tx, row.ID)
	})
	if errTx != nil {
		return nil, errTx
	}
	return &row, nil
}

// provisionQuotaRecords seeds one record per tracked resource type with
// usage zero and active status. Monthly counters get a reset marker at the
// start of the next month.
func (s *Service) provisionQuotaRecords(tx *gorm.DB, tenantID uint64) error {
	now := time.Now()
	nextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)

	for _, resourceType := range models.TrackedResourceTypes {
		limit := UnlimitedQuota
		if configured, ok := s.defaultLimits[resourceType]; ok {
			limit = configured
		}
		record := models.QuotaRecord{
			TenantID:     tenantID,
			ResourceType: resourceType,
			Limit:        limit,
			Usage:        0,
			Status:       models.QuotaStatusActive,
		}
		if resourceType == models.ResourceTypeJobsPerMonth {
			resetAt := nextMonth
			record.ResetAt = &resetAt
		}
		if errCreate := tx.Create(&record).Error; errCreate != nil {
			return fmt.Errorf("tenant: provision quota %s: %w", resourceType, errCreate)
		}
	}
	return nil
}

// Get returns a tenant by ID.
func (s *Service) Get(ctx context.Context, tenantID uint64) (*models.Tenant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("tenant: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var row models.Tenant
	errFind := s.db.WithContext(ctx).First(&row, tenantID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, quota.ErrTenantNotFound
	}
	if errFind != nil {
		return nil, errFind
	}
	return &row, nil
}

// List returns all tenants ordered by ID.
func (s *Service) List(ctx context.Context) ([]models.Tenant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("tenant: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Tenant
	if errFind := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; errFind != nil {
		return nil, errFind
	}
	return rows, nil
}

// Delete removes a tenant and cascades its quota records.
func (s *Service) Delete(ctx context.Context, tenantID uint64) error {
	if s == nil || s.db == nil {
		return errors.New("tenant: service not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Tenant{}, tenantID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return quota.ErrTenantNotFound
		}
		return tx.Where("tenant_id = ?", tenantID).Delete(&models.QuotaRecord{}).Error
	})
}

// slugify derives a URL-safe identifier from a display name.
func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
