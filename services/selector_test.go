package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/canteen-app/models"
)

func selectorSlots(now time.Time) []models.Slot {
	mk := func(id uint, offset time.Duration, count, max int, status models.SlotStatus) models.Slot {
		start := now.Add(offset)
		return models.Slot{
			ID:           id,
			StartTime:    start,
			EndTime:      start.Add(30 * time.Minute),
			CurrentCount: count,
			MaxCapacity:  max,
			Status:       status,
		}
	}
	return []models.Slot{
		mk(1, -30*time.Minute, 0, 5, models.SlotOpen), // sudah lewat
		mk(2, 1*time.Hour, 5, 5, models.SlotFull),     // penuh
		mk(3, 2*time.Hour, 2, 5, models.SlotOpen),
		mk(4, 3*time.Hour, 0, 5, models.SlotOpen),
	}
}

func TestSelectSlot(t *testing.T) {
	now := time.Now()
	settings := models.DefaultGlobalSettings()
	slots := selectorSlots(now)

	t.Run("first viable without preference", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 0, nil)
		assert.True(t, ok)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("viable preferred slot wins", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 4, nil)
		assert.True(t, ok)
		assert.Equal(t, uint(4), got.ID)
	})

	t.Run("full preferred falls back to scan", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 2, nil)
		assert.True(t, ok)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("expired preferred falls back to scan", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 1, nil)
		assert.True(t, ok)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("skip resumes after tried slot", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 0, map[uint]bool{3: true})
		assert.True(t, ok)
		assert.Equal(t, uint(4), got.ID)
	})

	t.Run("skip covers preferred slot too", func(t *testing.T) {
		got, ok := SelectSlot(now, settings, slots, 4, map[uint]bool{4: true})
		assert.True(t, ok)
		assert.Equal(t, uint(3), got.ID)
	})

	t.Run("nothing viable", func(t *testing.T) {
		_, ok := SelectSlot(now, settings, slots, 0, map[uint]bool{3: true, 4: true})
		assert.False(t, ok)
	})

	t.Run("manually closed slot skipped", func(t *testing.T) {
		admin := "admin-1"
		closed := selectorSlots(now)
		closed[2].Status = models.SlotClosed
		closed[2].ManuallyClosedBy = &admin

		got, ok := SelectSlot(now, settings, closed, 0, nil)
		assert.True(t, ok)
		assert.Equal(t, uint(4), got.ID)
	})
}
