package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/canteen-app/database"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// openTestDB -> sqlite file di temp dir. File (bukan :memory:) supaya
// transaksi paralel di test kontensi benar-benar melewati locking sqlite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "canteen_test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	// Jam kantin dibuka penuh supaya test tidak tergantung jam dinding.
	if err := db.Model(&models.GlobalSettings{}).Where("id = ?", 1).Updates(map[string]interface{}{
		"canteen_open_time": "00:00",
		"last_order_time":   "23:59",
	}).Error; err != nil {
		t.Fatalf("failed to open canteen hours: %v", err)
	}
	return db
}

// seedSlot membuat satu slot yang viable (mulai 2 jam dari sekarang).
func seedSlot(t *testing.T, db *gorm.DB, maxCapacity int) models.Slot {
	t.Helper()
	return seedSlotAt(t, db, time.Now().Add(2*time.Hour), maxCapacity)
}

func seedSlotAt(t *testing.T, db *gorm.DB, start time.Time, maxCapacity int) models.Slot {
	t.Helper()

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	slot := models.Slot{
		Date:        day,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		MaxCapacity: maxCapacity,
		Status:      models.SlotOpen,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("failed to seed slot: %v", err)
	}
	return slot
}

func testRequest(userID string) AdmissionRequest {
	return AdmissionRequest{
		UserID:   userID,
		UserName: "Budi",
		Items: []ItemRequest{
			{Name: "Nasi Goreng", Quantity: 1, Price: 15000},
			{Name: "Es Teh", Quantity: 2, Price: 5000},
		},
	}
}

func updateSettings(t *testing.T, db *gorm.DB, updates map[string]interface{}) {
	t.Helper()
	if err := db.Model(&models.GlobalSettings{}).Where("id = ?", 1).Updates(updates).Error; err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}
}
