package tenant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlasfield/fieldops/internal/db"
	"github.com/atlasfield/fieldops/internal/models"
	"github.com/atlasfield/fieldops/internal/quota"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestCreateProvisionsQuotaRecords(t *testing.T) {
	conn := openTestDB(t, "tenantcreate")
	service := NewService(conn, map[string]int64{
		models.ResourceTypeUsers:   10,
		models.ResourceTypeWorkers: 25,
	})

	row, errCreate := service.Create(context.Background(), CreateParams{Name: "Acme Field Services"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if row.ID == 0 {
		t.Fatal("expected an assigned tenant ID")
	}
	if row.Slug != "acme-field-services" {
		t.Fatalf("slug: got %s", row.Slug)
	}

	var records []models.QuotaRecord
	if errFind := conn.Where("tenant_id = ?", row.ID).
		Order("resource_type ASC").
		Find(&records).Error; errFind != nil {
		t.Fatalf("load records: %v", errFind)
	}
	if len(records) != len(models.TrackedResourceTypes) {
		t.Fatalf("record count: got %d want %d", len(records), len(models.TrackedResourceTypes))
	}
	for _, record := range records {
		if record.Usage != 0 {
			t.Fatalf("%s: usage got %d want 0", record.ResourceType, record.Usage)
		}
		if record.Status != models.QuotaStatusActive {
			t.Fatalf("%s: status got %s want active", record.ResourceType, record.Status)
		}
		switch record.ResourceType {
		case models.ResourceTypeUsers:
			if record.Limit != 10 {
				t.Fatalf("users limit: got %d want 10", record.Limit)
			}
		case models.ResourceTypeWorkers:
			if record.Limit != 25 {
				t.Fatalf("workers limit: got %d want 25", record.Limit)
			}
		default:
			if record.Limit != UnlimitedQuota {
				t.Fatalf("%s limit: got %d want unlimited", record.ResourceType, record.Limit)
			}
		}
		if record.ResourceType == models.ResourceTypeJobsPerMonth {
			if record.ResetAt == nil {
				t.Fatal("jobs_per_month must carry a reset marker")
			}
			if !record.ResetAt.After(time.Now()) {
				t.Fatalf("reset marker must be in the future, got %v", record.ResetAt)
			}
		} else if record.ResetAt != nil {
			t.Fatalf("%s: unexpected reset marker %v", record.ResourceType, record.ResetAt)
		}
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	conn := openTestDB(t, "tenantdup")
	service := NewService(conn, nil)

	if _, errFirst := service.Create(context.Background(), CreateParams{Name: "Acme"}); errFirst != nil {
		t.Fatalf("first create: %v", errFirst)
	}
	_, errSecond := service.Create(context.Background(), CreateParams{Name: "Acme"})
	if !errors.Is(errSecond, ErrTenantExists) {
		t.Fatalf("expected ErrTenantExists, got %v", errSecond)
	}

	var count int64
	if errCount := conn.Model(&models.Tenant{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count tenants: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("tenant count: got %d want 1", count)
	}
}

func TestCreateRequiresName(t *testing.T) {
	conn := openTestDB(t, "tenantnoname")
	service := NewService(conn, nil)

	if _, errCreate := service.Create(context.Background(), CreateParams{Name: "   "}); errCreate == nil {
		t.Fatal("expected an error for a blank name")
	}
}

func TestDeleteCascadesQuotaRecords(t *testing.T) {
	conn := openTestDB(t, "tenantdelete")
	service := NewService(conn, nil)

	row, errCreate := service.Create(context.Background(), CreateParams{Name: "Acme"})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	if errDelete := service.Delete(context.Background(), row.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}

	var remaining int64
	if errCount := conn.Model(&models.QuotaRecord{}).
		Where("tenant_id = ?", row.ID).
		Count(&remaining).Error; errCount != nil {
		t.Fatalf("count records: %v", errCount)
	}
	if remaining != 0 {
		t.Fatalf("quota records after delete: got %d want 0", remaining)
	}

	if _, errGet := service.Get(context.Background(), row.ID); !errors.Is(errGet, quota.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound after delete, got %v", errGet)
	}
}

func TestDeleteMissingTenant(t *testing.T) {
	conn := openTestDB(t, "tenantdelmissing")
	service := NewService(conn, nil)

	if errDelete := service.Delete(context.Background(), 404); !errors.Is(errDelete, quota.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", errDelete)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Field Services": "acme-field-services",
		"  A&B   Crew  ":      "a-b-crew",
		"Route 66":            "route-66",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Fatalf("slugify(%q): got %q want %q", input, got, want)
		}
	}
}
