package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/atlasfield/fieldops/internal/models"
)

// Migrate applies the schema for every persisted model.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.Tenant{},
		&models.Role{},
		&models.User{},
		&models.Worker{},
		&models.Location{},
		&models.Job{},
		&models.Asset{},
		&models.Attachment{},
		&models.FormTemplate{},
		&models.AuditLog{},
		&models.QuotaRecord{},
	)
}
