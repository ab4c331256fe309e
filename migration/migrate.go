package migration

import (
	"qc-registry/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.StateEntry{},
	)
}
