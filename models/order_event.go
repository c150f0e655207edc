package models

import (
	"time"
)

// OrderEvent adalah outbox row untuk setiap transisi status order.
// Ditulis dalam transaksi yang sama dengan perubahan statusnya, lalu
// dipoll oleh EventMonitor (at-least-once, terurut per order lewat id).
type OrderEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	OldStatus OrderStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus OrderStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	SlotID    uint        `gorm:"not null" json:"slot_id"`
	ChangedAt time.Time   `gorm:"not null" json:"changed_at"`
	Processed bool        `gorm:"default:false;index" json:"processed"`
}

func (OrderEvent) TableName() string { return "order_events" }
