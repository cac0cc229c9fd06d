package user

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

func seedTenantWithUserQuota(t *testing.T, conn *gorm.DB, limit int64) uint64 {
	t.Helper()
	row := models.Tenant{Name: "acme", Slug: "acme", Plan: "standard", Active: true}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed tenant: %v", errCreate)
	}
	record := models.QuotaRecord{
		TenantID:     row.ID,
		ResourceType: models.ResourceTypeUsers,
		Limit:        limit,
		Status:       models.QuotaStatusActive,
	}
	if errCreate := conn.Create(&record).Error; errCreate != nil {
		t.Fatalf("seed quota record: %v", errCreate)
	}
	return row.ID
}

func TestCreateHashesPasswordAndBumpsUsage(t *testing.T) {
	conn := openTestDB(t, "usercreate")
	tenantID := seedTenantWithUserQuota(t, conn, 10)
	service := NewService(conn, quota.NewGuard(conn))

	row, errCreate := service.Create(context.Background(), tenantID, CreateParams{
		Name:     "Ann",
		Email:    "Ann@Acme.Test",
		Password: "s3cret",
	})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if row.Email != "ann@acme.test" {
		t.Fatalf("email normalization: got %s", row.Email)
	}
	if row.Password == "s3cret" || row.Password == "" {
		t.Fatal("password must be stored hashed")
	}

	var record models.QuotaRecord
	if errFind := conn.Where("tenant_id = ? AND resource_type = ?", tenantID, models.ResourceTypeUsers).
		First(&record).Error; errFind != nil {
		t.Fatalf("load record: %v", errFind)
	}
	if record.Usage != 1 {
		t.Fatalf("usage after create: got %d want 1", record.Usage)
	}
}

func TestCreateDeniedAtLimit(t *testing.T) {
	conn := openTestDB(t, "userdenied")
	tenantID := seedTenantWithUserQuota(t, conn, 1)
	service := NewService(conn, quota.NewGuard(conn))

	if _, errFirst := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Ann", Email: "ann@acme.test", Password: "x",
	}); errFirst != nil {
		t.Fatalf("first create: %v", errFirst)
	}

	_, errSecond := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Bob", Email: "bob@acme.test", Password: "x",
	})
	var exceeded *quota.QuotaExceededError
	if !errors.As(errSecond, &exceeded) {
		t.Fatalf("expected QuotaExceededError, got %v", errSecond)
	}
	if exceeded.Limit != 1 || exceeded.Usage != 1 {
		t.Fatalf("denial detail: %+v", exceeded)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	conn := openTestDB(t, "userdup")
	tenantID := seedTenantWithUserQuota(t, conn, 10)
	service := NewService(conn, quota.NewGuard(conn))

	if _, errFirst := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Ann", Email: "ann@acme.test", Password: "x",
	}); errFirst != nil {
		t.Fatalf("first create: %v", errFirst)
	}
	_, errSecond := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Ann Again", Email: "ann@acme.test", Password: "x",
	})
	if !errors.Is(errSecond, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", errSecond)
	}
}

func TestDeactivateReleasesQuotaUnit(t *testing.T) {
	conn := openTestDB(t, "userdeactivate")
	tenantID := seedTenantWithUserQuota(t, conn, 10)
	service := NewService(conn, quota.NewGuard(conn))

	row, errCreate := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Ann", Email: "ann@acme.test", Password: "x",
	})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if errDeactivate := service.Deactivate(context.Background(), tenantID, row.ID); errDeactivate != nil {
		t.Fatalf("deactivate: %v", errDeactivate)
	}

	var record models.QuotaRecord
	if errFind := conn.Where("tenant_id = ? AND resource_type = ?", tenantID, models.ResourceTypeUsers).
		First(&record).Error; errFind != nil {
		t.Fatalf("load record: %v", errFind)
	}
	if record.Usage != 0 {
		t.Fatalf("usage after deactivate: got %d want 0", record.Usage)
	}

	// A second deactivation is a no-op, not a second decrement.
	if errAgain := service.Deactivate(context.Background(), tenantID, row.ID); errAgain != nil {
		t.Fatalf("repeat deactivate: %v", errAgain)
	}
	if errMissing := service.Deactivate(context.Background(), tenantID, 999); !errors.Is(errMissing, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", errMissing)
	}
}

func TestAuthenticate(t *testing.T) {
	conn := openTestDB(t, "userauth")
	tenantID := seedTenantWithUserQuota(t, conn, 10)
	service := NewService(conn, quota.NewGuard(conn))

	row, errCreate := service.Create(context.Background(), tenantID, CreateParams{
		Name: "Ann", Email: "ann@acme.test", Password: "s3cret",
	})
	if errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	authed, errAuth := service.Authenticate(context.Background(), tenantID, "ann@acme.test", "s3cret")
	if errAuth != nil {
		t.Fatalf("authenticate: %v", errAuth)
	}
	if authed.ID != row.ID {
		t.Fatalf("authenticated wrong user: %d", authed.ID)
	}

	if _, errWrong := service.Authenticate(context.Background(), tenantID, "ann@acme.test", "nope"); !errors.Is(errWrong, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", errWrong)
	}

	if errDeactivate := service.Deactivate(context.Background(), tenantID, row.ID); errDeactivate != nil {
		t.Fatalf("deactivate: %v", errDeactivate)
	}
	if _, errInactive := service.Authenticate(context.Background(), tenantID, "ann@acme.test", "s3cret"); !errors.Is(errInactive, ErrBadCredentials) {
		t.Fatalf("inactive account must not sign in, got %v", errInactive)
	}
}
