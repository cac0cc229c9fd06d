package quota

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlasfield/fieldops/internal/models"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Worker{},
		&models.Job{},
		&models.Asset{},
		&models.Location{},
		&models.Attachment{},
		&models.FormTemplate{},
		&models.Role{},
		&models.QuotaRecord{},
		&models.AuditLog{},
	); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedTenant(t *testing.T, conn *gorm.DB, name string) uint64 {
	t.Helper()
	row := models.Tenant{Name: name, Slug: name, Plan: "standard", Active: true}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed tenant: %v", errCreate)
	}
	return row.ID
}

func seedQuotaRecord(t *testing.T, conn *gorm.DB, tenantID uint64, resourceType string, limit, usage int64, status string) {
	t.Helper()
	record := models.QuotaRecord{
		TenantID:     tenantID,
		ResourceType: resourceType,
		Limit:        limit,
		Usage:        usage,
		Status:       status,
	}
	if errCreate := conn.Create(&record).Error; errCreate != nil {
		t.Fatalf("seed quota record: %v", errCreate)
	}
}

func loadQuotaRecord(t *testing.T, conn *gorm.DB, tenantID uint64, resourceType string) models.QuotaRecord {
	t.Helper()
	var record models.QuotaRecord
	if errFind := conn.Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
		First(&record).Error; errFind != nil {
		t.Fatalf("load quota record %s: %v", resourceType, errFind)
	}
	return record
}
