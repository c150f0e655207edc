package models

import (
	"time"
)

// GlobalSettings adalah konfigurasi kantin (singleton row, id=1).
// Ditulis oleh panel admin di luar service ini; di sini hanya dibaca,
// lalu dioper by-value ke evaluator (fetch-then-pass, bukan singleton ambient).
type GlobalSettings struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	OrderingPaused      bool       `gorm:"not null;default:false" json:"ordering_paused"`
	PausedByAdminID     *string    `gorm:"type:varchar(64)" json:"paused_by_admin_id,omitempty"`
	PauseReason         *string    `gorm:"type:varchar(255)" json:"pause_reason,omitempty"`
	CanteenOpenTime     string     `gorm:"type:varchar(5);not null;default:'08:00'" json:"canteen_open_time"`
	CanteenCloseTime    string     `gorm:"type:varchar(5);not null;default:'15:00'" json:"canteen_close_time"`
	LastOrderTime       string     `gorm:"type:varchar(5);not null;default:'14:00'" json:"last_order_time"`
	MaxConcurrentOrders int        `gorm:"not null;default:20" json:"max_concurrent_orders"`
	SlotBufferMinutes   int        `gorm:"not null;default:10" json:"slot_buffer_minutes"`
	UpdatedAt           time.Time  `json:"updated_at"`
	UpdatedBy           *string    `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
	PausedAt            *time.Time `json:"paused_at,omitempty"`
}

func (GlobalSettings) TableName() string { return "global_settings" }

// DefaultGlobalSettings dipakai saat row settings belum ada di DB.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		ID:                  1,
		CanteenOpenTime:     "08:00",
		CanteenCloseTime:    "15:00",
		LastOrderTime:       "14:00",
		MaxConcurrentOrders: 20,
		SlotBufferMinutes:   10,
	}
}

// ClockOn memproyeksikan field jam "HH:MM" ke tanggal day.
// Format tidak valid -> zero time (rule terkait dilewati oleh evaluator).
func ClockOn(day time.Time, hhmm string) time.Time {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
}

func (g GlobalSettings) OpenTimeOn(day time.Time) time.Time {
	return ClockOn(day, g.CanteenOpenTime)
}

func (g GlobalSettings) LastOrderTimeOn(day time.Time) time.Time {
	return ClockOn(day, g.LastOrderTime)
}
