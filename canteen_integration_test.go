package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yeremiapane/canteen-app/database"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/router"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 1. Place order -> reservasi slot + order pending
// 2. Event monitor -> proyeksi antrian terisi
// 3. confirmed -> preparing -> ready -> completed
// 4. Order kedua dibatalkan -> kapasitas slot kembali
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB(t)
	slot := seedIntegrationSlot(t, db, 2)

	projector := services.NewQueueProjector()
	monitor := services.NewEventMonitor(db, projector)
	r := router.SetupRouter(db, projector)

	// 1. Place dua order
	firstID := placeOrderTest(t, r, "user-1")
	secondID := placeOrderTest(t, r, "user-2")

	var fullSlot models.Slot
	assert.NoError(t, db.First(&fullSlot, slot.ID).Error)
	assert.Equal(t, 2, fullSlot.CurrentCount)
	assert.Equal(t, models.SlotFull, fullSlot.Status)

	// 2. Jalankan satu batch monitor, antrian terisi
	monitor.Interval = 10 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	assert.Eventually(t, func() bool {
		return projector.Snapshot().Counts.Pending == 2
	}, 2*time.Second, 20*time.Millisecond)

	// 3. Dorong order pertama sampai selesai
	for _, status := range []string{"confirmed", "preparing", "ready", "completed"} {
		transitionOrderTest(t, r, firstID, status)
	}
	var completed models.Order
	assert.NoError(t, db.First(&completed, firstID).Error)
	assert.Equal(t, models.OrderCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// 4. Batalkan order kedua -> slot terbuka lagi
	cancelOrderTest(t, r, secondID)

	var reopened models.Slot
	assert.NoError(t, db.First(&reopened, slot.ID).Error)
	assert.Equal(t, 1, reopened.CurrentCount)
	assert.Equal(t, models.SlotOpen, reopened.Status)

	// Proyeksi mengikuti: 1 completed, 1 cancelled, 0 aktif
	assert.Eventually(t, func() bool {
		snap := projector.Snapshot()
		return snap.Counts.Completed == 1 && snap.Counts.Cancelled == 1 && snap.Counts.ActiveOrders == 0
	}, 2*time.Second, 20*time.Millisecond)

	// Queue endpoint menyajikan snapshot yang sama
	req, _ := http.NewRequest("GET", "/queue", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "canteen_e2e.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := db.Model(&models.GlobalSettings{}).Where("id = ?", 1).Updates(map[string]interface{}{
		"canteen_open_time": "00:00",
		"last_order_time":   "23:59",
	}).Error; err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}
	return db
}

func seedIntegrationSlot(t *testing.T, db *gorm.DB, maxCapacity int) models.Slot {
	t.Helper()

	start := time.Now().Add(2 * time.Hour)
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

func placeOrderTest(t *testing.T, r *gin.Engine, userID string) int {
	t.Helper()

	payload := map[string]interface{}{
		"user_id":   userID,
		"user_name": "Siti",
		"items": []map[string]interface{}{
			{"name": "Ayam Geprek", "quantity": 1, "price": 18000},
		},
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	return int(resp["order_id"].(float64))
}

func transitionOrderTest(t *testing.T, r *gin.Engine, orderID int, status string) {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{"status": status})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/orders/%d/status", orderID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func cancelOrderTest(t *testing.T, r *gin.Engine, orderID int) {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{"reason": "jadwal berubah"})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/orders/%d/cancel", orderID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
