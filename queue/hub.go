package queue

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/canteen-app/models"
)

// Event types
const (
	EventOrderUpdate  = "order_update"
	EventQueueUpdate  = "queue_update"
	EventSlotUpdate   = "slot_update"
	EventStaffNotif   = "staff_notification"
	EventOrderPlaced  = "order_placed"
	EventOrderReady   = "order_ready"
	EventOrderRemoved = "order_cancelled"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderTimestamps melengkapi payload lifecycle event untuk dispatcher notifikasi.
type OrderTimestamps struct {
	PlacedAt    time.Time  `json:"placed_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// LifecycleEvent disiarkan setelah commit setiap transisi status order.
type LifecycleEvent struct {
	OrderID    uint               `json:"order_id"`
	OrderCode  string             `json:"order_code"`
	OldStatus  models.OrderStatus `json:"old_status"`
	NewStatus  models.OrderStatus `json:"new_status"`
	SlotID     uint               `json:"slot_id"`
	ChangedAt  time.Time          `json:"changed_at"`
	Timestamps OrderTimestamps    `json:"timestamps"`
}

// Hub menampung semua client dashboard (staff kantin, layar antrian)
// dan menyiarkan event ke semuanya.
type Hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]bool),
}

// RegisterClient -> menambahkan connection ke set
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = true
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// NewLifecycleEvent membangun payload event dari outbox row dan order terkait.
func NewLifecycleEvent(evt models.OrderEvent, order models.Order) LifecycleEvent {
	return LifecycleEvent{
		OrderID:   evt.OrderID,
		OrderCode: order.PublicCode,
		OldStatus: evt.OldStatus,
		NewStatus: evt.NewStatus,
		SlotID:    evt.SlotID,
		ChangedAt: evt.ChangedAt,
		Timestamps: OrderTimestamps{
			PlacedAt:    order.PlacedAt,
			ConfirmedAt: order.ConfirmedAt,
			ReadyAt:     order.ReadyAt,
			CompletedAt: order.CompletedAt,
		},
	}
}

// BroadcastLifecycleEvent -> menyiarkan transisi status order ke semua client
func BroadcastLifecycleEvent(evt models.OrderEvent, order models.Order) {
	event := EventOrderUpdate
	switch evt.NewStatus {
	case models.OrderPending:
		event = EventOrderPlaced
	case models.OrderReady:
		event = EventOrderReady
	case models.OrderCancelled:
		event = EventOrderRemoved
	}
	broadcast(Message{
		Event: event,
		Data:  NewLifecycleEvent(evt, order),
	})
}

// BroadcastQueueUpdate -> snapshot antrian terbaru untuk dashboard
func BroadcastQueueUpdate(data interface{}) {
	broadcast(Message{
		Event: EventQueueUpdate,
		Data:  data,
	})
}

// BroadcastSlotUpdate -> perubahan kapasitas/status slot
func BroadcastSlotUpdate(slot models.Slot) {
	broadcast(Message{
		Event: EventSlotUpdate,
		Data:  slot,
	})
}

// BroadcastStaffNotification -> notifikasi untuk staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Client mati -> lepas dari set
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
