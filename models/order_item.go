package models

import "time"

type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal -> harga * jumlah
func (oi *OrderItem) Subtotal() float64 {
	return float64(oi.Quantity) * oi.Price
}
