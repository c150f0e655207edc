package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/queue"
	"github.com/yeremiapane/canteen-app/utils"
)

// EventMonitor mem-poll outbox order_events dan meneruskan state order
// terbaru ke QueueProjector + websocket hub. Delivery at-least-once:
// batch yang gagal di-mark processed akan terkirim lagi, projector
// idempoten jadi aman.
type EventMonitor struct {
	DB        *gorm.DB
	Projector *QueueProjector
	StopChan  chan struct{}
	Interval  time.Duration
}

func NewEventMonitor(db *gorm.DB, projector *QueueProjector) *EventMonitor {
	return &EventMonitor{
		DB:        db,
		Projector: projector,
		StopChan:  make(chan struct{}),
		Interval:  1 * time.Second,
	}
}

func (em *EventMonitor) Start() {
	go func() {
		ticker := time.NewTicker(em.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				em.checkEvents()
			case <-em.StopChan:
				return
			}
		}
	}()
}

func (em *EventMonitor) Stop() {
	close(em.StopChan)
}

// Prime mengisi projector dengan order hari ini dari store, dipakai saat boot
// supaya dashboard tidak mulai dari kosong.
func (em *EventMonitor) Prime() error {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var orders []models.Order
	if err := em.DB.Preload("Items").
		Where("placed_at >= ?", startOfDay).
		Find(&orders).Error; err != nil {
		return err
	}
	em.Projector.ApplyAll(orders)
	return nil
}

// checkEvents memproses satu batch outbox. Urutan id ASC menjaga ordering
// per order; antar order tidak ada jaminan dan memang tidak dibutuhkan.
func (em *EventMonitor) checkEvents() {
	var events []models.OrderEvent

	tx := em.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("id ASC").
		Limit(100).
		Find(&events).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("event monitor: gagal baca outbox: %v", err)
		return
	}
	if len(events) == 0 {
		tx.Commit()
		return
	}

	for _, event := range events {
		em.processEvent(event)

		if err := tx.Model(&models.OrderEvent{}).
			Where("id = ?", event.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("event monitor: gagal mark processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("event monitor: commit gagal: %v", err)
		tx.Rollback()
		return
	}

	utils.InfoLogger.Printf("event monitor: %d event diproses", len(events))
}

func (em *EventMonitor) processEvent(event models.OrderEvent) {
	var order models.Order
	if err := em.DB.Preload("Items").First(&order, event.OrderID).Error; err != nil {
		utils.ErrorLogger.Printf("event monitor: order %d tidak ditemukan: %v", event.OrderID, err)
		return
	}
	em.Projector.Apply(order)

	// Lifecycle event untuk dispatcher notifikasi eksternal, plus state
	// slot terbaru untuk layar pemilihan slot.
	queue.BroadcastLifecycleEvent(event, order)
	if event.NewStatus == models.OrderReady {
		queue.BroadcastStaffNotification(fmt.Sprintf("Order %s siap diambil", order.PublicCode))
	}
	var slot models.Slot
	if err := em.DB.First(&slot, event.SlotID).Error; err == nil {
		queue.BroadcastSlotUpdate(slot)
	}
}
