package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/canteen-app/models"
)

// Decision adalah hasil evaluasi cutoff. Untuk rule admin/jam/kitchen
// hasilnya otoritatif (tidak perlu re-check); rule slot-level bersifat
// advisory untuk seleksi kandidat.
type Decision struct {
	Allow   bool
	Code    string
	Message string
}

func allow() Decision {
	return Decision{Allow: true}
}

func deny(code, message string) Decision {
	return Decision{Allow: false, Code: code, Message: message}
}

// EvaluateCutoffs memutuskan apakah admission boleh jalan sekarang.
// Fungsi murni: settings dioper by-value, tidak ada side effect.
// Urutan rule tetap, rule gagal pertama yang menang:
//  1. pause admin
//  2. jam operasional kantin
//  3. beban dapur (order pending/preparing aktif)
//  4. rule slot-level kalau slot diberikan
func EvaluateCutoffs(now time.Time, settings models.GlobalSettings, activeOrders int, slot *models.Slot) Decision {
	if settings.OrderingPaused {
		reason := "Pemesanan sedang dijeda oleh admin"
		if settings.PauseReason != nil && *settings.PauseReason != "" {
			reason = *settings.PauseReason
		}
		return deny(CodeAdminPaused, reason)
	}

	if openAt := settings.OpenTimeOn(now); !openAt.IsZero() && now.Before(openAt) {
		return deny(CodeNotOpenYet,
			fmt.Sprintf("Kantin buka pukul %s", settings.CanteenOpenTime))
	}
	if lastAt := settings.LastOrderTimeOn(now); !lastAt.IsZero() && !now.Before(lastAt) {
		return deny(CodeClosedForDay,
			fmt.Sprintf("Pemesanan hari ini sudah ditutup (last order %s)", settings.LastOrderTime))
	}

	if settings.MaxConcurrentOrders > 0 && activeOrders >= settings.MaxConcurrentOrders {
		return deny(CodeKitchenOverloaded, "Dapur sedang penuh, coba beberapa saat lagi")
	}

	if slot != nil {
		return evaluateSlotCutoffs(now, settings, slot)
	}
	return allow()
}

// evaluateSlotCutoffs hanya rule level slot; kapasitas TIDAK dicek di sini,
// itu urusan transaksi reservasi.
func evaluateSlotCutoffs(now time.Time, settings models.GlobalSettings, slot *models.Slot) Decision {
	if slot.StartTime.Before(now) {
		return deny(CodeSlotExpired, "Slot pengambilan sudah lewat")
	}
	buffer := time.Duration(settings.SlotBufferMinutes) * time.Minute
	if now.After(slot.StartTime.Add(-buffer)) {
		return deny(CodeSlotTooSoon,
			fmt.Sprintf("Slot tutup %d menit sebelum waktu ambil", settings.SlotBufferMinutes))
	}
	if slot.ManuallyClosed() {
		return deny(CodeManuallyClosed, "Slot ditutup oleh admin")
	}
	return allow()
}

// SlotViable -> apakah slot masih bisa dipakai untuk admission baru
// (tanpa mempertimbangkan kapasitas).
func SlotViable(now time.Time, settings models.GlobalSettings, slot *models.Slot) bool {
	return evaluateSlotCutoffs(now, settings, slot).Allow
}
