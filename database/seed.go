package database

import (
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
)

// SeedSlots membuat grid slot pengambilan untuk satu hari, dipakai di
// development sebagai pengganti proses penjadwalan eksternal.
// Idempoten: hari yang sudah punya slot dilewati.
func SeedSlots(db *gorm.DB, day time.Time) error {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var count int64
	if err := db.Model(&models.Slot{}).Where("date = ?", startOfDay).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	capacity := 10
	if raw := os.Getenv("SLOT_CAPACITY"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			capacity = parsed
		}
	}

	// Jendela makan siang 11:00-14:00, slot tiap 30 menit.
	var slots []models.Slot
	start := time.Date(day.Year(), day.Month(), day.Day(), 11, 0, 0, 0, day.Location())
	for i := 0; i < 6; i++ {
		slotStart := start.Add(time.Duration(i) * 30 * time.Minute)
		slots = append(slots, models.Slot{
			Date:        startOfDay,
			StartTime:   slotStart,
			EndTime:     slotStart.Add(30 * time.Minute),
			MaxCapacity: capacity,
			Status:      models.SlotOpen,
		})
	}
	return db.Create(&slots).Error
}
