package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/canteen-app/models"
)

func TestEventMonitor_ProcessesOutbox(t *testing.T) {
	db := openTestDB(t)
	seedSlot(t, db, 5)
	_, order, _ := placeTestOrder(t, db)

	qp := NewQueueProjector()
	em := NewEventMonitor(db, qp)

	em.checkEvents()

	snap := qp.Snapshot()
	assert.Equal(t, 1, snap.Counts.Pending)

	var unprocessed int64
	db.Model(&models.OrderEvent{}).Where("processed = ?", false).Count(&unprocessed)
	assert.Zero(t, unprocessed)

	// Transisi baru menghasilkan outbox row baru untuk batch berikutnya
	ls := NewLifecycleService(db)
	_, err := ls.Transition(order.ID, models.OrderConfirmed, "")
	assert.NoError(t, err)

	em.checkEvents()
	snap = qp.Snapshot()
	assert.Equal(t, 0, snap.Counts.Pending)
	assert.Equal(t, 1, snap.Counts.Confirmed)
}

// Redelivery at-least-once tidak menggandakan state projector.
func TestEventMonitor_ReplaySafe(t *testing.T) {
	db := openTestDB(t)
	seedSlot(t, db, 5)
	placeTestOrder(t, db)

	qp := NewQueueProjector()
	em := NewEventMonitor(db, qp)

	em.checkEvents()
	once := qp.Snapshot()

	// Paksa redelivery: reset flag processed lalu proses lagi
	assert.NoError(t, db.Model(&models.OrderEvent{}).Where("1 = 1").
		Update("processed", false).Error)
	em.checkEvents()
	twice := qp.Snapshot()

	assert.Equal(t, once.Counts, twice.Counts)
}

func TestEventMonitor_Prime(t *testing.T) {
	db := openTestDB(t)
	seedSlot(t, db, 5)
	placeTestOrder(t, db)

	qp := NewQueueProjector()
	em := NewEventMonitor(db, qp)
	assert.NoError(t, em.Prime())

	snap := qp.Snapshot()
	assert.Equal(t, 1, snap.Counts.Total)
	assert.Equal(t, 1, snap.Counts.Pending)
}
