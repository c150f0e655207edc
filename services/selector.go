package services

import (
	"time"

	"github.com/yeremiapane/canteen-app/models"
)

// SelectSlot memilih kandidat slot untuk admission.
// slots harus terurut (date, start_time). skip berisi id slot yang sudah
// pernah dicoba pada request ini, supaya fallback tidak menguji slot yang sama.
//
// Prioritas: preferred slot kalau viable dan masih ada headroom kapasitas;
// kalau tidak, scan naik dari sekarang dan ambil yang pertama lolos.
func SelectSlot(now time.Time, settings models.GlobalSettings, slots []models.Slot, preferredID uint, skip map[uint]bool) (*models.Slot, bool) {
	if preferredID != 0 && !skip[preferredID] {
		for i := range slots {
			if slots[i].ID != preferredID {
				continue
			}
			if slotSelectable(now, settings, &slots[i]) {
				return &slots[i], true
			}
			break
		}
	}

	for i := range slots {
		if skip[slots[i].ID] || slots[i].ID == preferredID {
			continue
		}
		if slotSelectable(now, settings, &slots[i]) {
			return &slots[i], true
		}
	}
	return nil, false
}

func slotSelectable(now time.Time, settings models.GlobalSettings, slot *models.Slot) bool {
	if !SlotViable(now, settings, slot) {
		return false
	}
	if slot.Status == models.SlotClosed {
		return false
	}
	return slot.HasCapacity()
}
