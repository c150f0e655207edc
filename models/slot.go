package models

import (
	"time"
)

type SlotStatus string

const (
	SlotOpen   SlotStatus = "open"
	SlotFull   SlotStatus = "full"
	SlotClosed SlotStatus = "closed"
)

// Slot adalah jendela waktu pengambilan dengan kapasitas terbatas.
// CurrentCount hanya dimutasi oleh reservasi admission (increment) dan
// kompensasi pembatalan (decrement); invariant 0 <= CurrentCount <= MaxCapacity.
type Slot struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Date             time.Time  `gorm:"type:date;not null;index" json:"date"`
	StartTime        time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime          time.Time  `gorm:"not null" json:"end_time"`
	MaxCapacity      int        `gorm:"not null" json:"max_capacity"`
	CurrentCount     int        `gorm:"not null;default:0" json:"current_count"`
	Status           SlotStatus `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
	AutoClosedAt     *time.Time `json:"auto_closed_at,omitempty"`
	ManuallyClosedBy *string    `gorm:"type:varchar(64)" json:"manually_closed_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Slot) TableName() string { return "slots" }

// HasCapacity -> masih ada sisa kapasitas
func (s *Slot) HasCapacity() bool {
	return s.CurrentCount < s.MaxCapacity
}

// ManuallyClosed -> ditutup manual oleh admin; menang atas auto-reopen
func (s *Slot) ManuallyClosed() bool {
	return s.Status == SlotClosed && s.ManuallyClosedBy != nil
}
