package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
)

// Migrate menjalankan AutoMigrate untuk semua entitas service ini dan
// memastikan row GlobalSettings tersedia.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.GlobalSettings{},
		&models.Slot{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderEvent{},
	); err != nil {
		return err
	}

	// Settings adalah singleton row; buat default kalau belum ada.
	defaults := models.DefaultGlobalSettings()
	return db.Where(models.GlobalSettings{ID: 1}).
		Attrs(defaults).
		FirstOrCreate(&models.GlobalSettings{}).Error
}
