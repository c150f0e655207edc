package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal -> status akhir, order tidak boleh berubah lagi
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Active -> order yang masih menahan kapasitas slot
func (s OrderStatus) Active() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady:
		return true
	}
	return false
}

type Order struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	PublicCode         string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"public_code"`
	UserID             string      `gorm:"type:varchar(64);not null;index" json:"user_id"`
	UserName           string      `gorm:"type:varchar(100);not null" json:"user_name"`
	Items              []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount        float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	SlotID             uint        `gorm:"not null;index" json:"slot_id"`
	Slot               Slot        `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	Status             OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PlacedAt           time.Time   `gorm:"not null" json:"placed_at"`
	ConfirmedAt        *time.Time  `json:"confirmed_at,omitempty"`
	ReadyAt            *time.Time  `json:"ready_at,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
	CancellationReason *string     `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// GenerateUserIdentifier menghasilkan identifier untuk user berdasarkan order
func (o *Order) GenerateUserIdentifier() string {
	return fmt.Sprintf("USR-%s-%d", o.UserID, o.ID)
}
