package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/canteen-app/models"
)

// QueueGroups mengelompokkan order per status dengan field tetap per status,
// bukan map ber-key string, supaya exhaustive saat compile.
type QueueGroups struct {
	Pending   []models.Order `json:"pending"`
	Confirmed []models.Order `json:"confirmed"`
	Preparing []models.Order `json:"preparing"`
	Ready     []models.Order `json:"ready"`
	Completed []models.Order `json:"completed"`
	Cancelled []models.Order `json:"cancelled"`
}

type QueueCounts struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Confirmed    int `json:"confirmed"`
	Preparing    int `json:"preparing"`
	Ready        int `json:"ready"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
	ActiveOrders int `json:"active_orders"`
}

type QueueSnapshot struct {
	Groups      QueueGroups `json:"groups"`
	Counts      QueueCounts `json:"counts"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// QueueProjector adalah proyeksi read-only order per status untuk dashboard.
// Konsumsi feed at-least-once: state per order last-write-wins, jadi event
// duplikat/replay tidak mengubah hasil.
type QueueProjector struct {
	mu     sync.RWMutex
	orders map[uint]models.Order

	subMu  sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	ch     chan QueueSnapshot
	filter map[models.OrderStatus]bool
}

func NewQueueProjector() *QueueProjector {
	return &QueueProjector{
		orders: make(map[uint]models.Order),
		subs:   make(map[uint64]*subscriber),
	}
}

// Apply meng-upsert state terbaru satu order (last-write-wins per order id)
// lalu mendorong snapshot baru ke semua subscriber.
func (qp *QueueProjector) Apply(order models.Order) {
	qp.mu.Lock()
	qp.orders[order.ID] = order
	qp.mu.Unlock()

	qp.publish()
}

// ApplyAll untuk priming awal dari isi store.
func (qp *QueueProjector) ApplyAll(orders []models.Order) {
	qp.mu.Lock()
	for _, order := range orders {
		qp.orders[order.ID] = order
	}
	qp.mu.Unlock()

	qp.publish()
}

// Snapshot -> potret antrian saat ini.
func (qp *QueueProjector) Snapshot() QueueSnapshot {
	return qp.snapshotFiltered(nil, time.Time{}, time.Time{})
}

// FetchSnapshot -> daftar order terfilter rentang tanggal (placed_at) dan
// status. Zero time berarti tanpa batas; statuses kosong berarti semua.
func (qp *QueueProjector) FetchSnapshot(from, to time.Time, statuses ...models.OrderStatus) QueueSnapshot {
	filter := make(map[models.OrderStatus]bool, len(statuses))
	for _, s := range statuses {
		filter[s] = true
	}
	return qp.snapshotFiltered(filter, from, to)
}

func (qp *QueueProjector) snapshotFiltered(statuses map[models.OrderStatus]bool, from, to time.Time) QueueSnapshot {
	qp.mu.RLock()
	defer qp.mu.RUnlock()

	snap := QueueSnapshot{GeneratedAt: time.Now()}
	for _, order := range qp.orders {
		if len(statuses) > 0 && !statuses[order.Status] {
			continue
		}
		if !from.IsZero() && order.PlacedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !order.PlacedAt.Before(to) {
			continue
		}

		snap.Counts.Total++
		if order.Status.Active() {
			snap.Counts.ActiveOrders++
		}
		switch order.Status {
		case models.OrderPending:
			snap.Groups.Pending = append(snap.Groups.Pending, order)
			snap.Counts.Pending++
		case models.OrderConfirmed:
			snap.Groups.Confirmed = append(snap.Groups.Confirmed, order)
			snap.Counts.Confirmed++
		case models.OrderPreparing:
			snap.Groups.Preparing = append(snap.Groups.Preparing, order)
			snap.Counts.Preparing++
		case models.OrderReady:
			snap.Groups.Ready = append(snap.Groups.Ready, order)
			snap.Counts.Ready++
		case models.OrderCompleted:
			snap.Groups.Completed = append(snap.Groups.Completed, order)
			snap.Counts.Completed++
		case models.OrderCancelled:
			snap.Groups.Cancelled = append(snap.Groups.Cancelled, order)
			snap.Counts.Cancelled++
		}
	}
	return snap
}

// Subscribe mendaftarkan stream snapshot untuk satu subscriber; statuses
// opsional membatasi snapshot ke status tertentu (kosong = semua).
// cancel aman dipanggil lebih dari sekali dan dari titik mana pun.
func (qp *QueueProjector) Subscribe(statuses ...models.OrderStatus) (<-chan QueueSnapshot, func()) {
	var filter map[models.OrderStatus]bool
	if len(statuses) > 0 {
		filter = make(map[models.OrderStatus]bool, len(statuses))
		for _, s := range statuses {
			filter[s] = true
		}
	}

	qp.subMu.Lock()
	id := qp.nextID
	qp.nextID++
	sub := &subscriber{ch: make(chan QueueSnapshot, 8), filter: filter}
	qp.subs[id] = sub
	qp.subMu.Unlock()

	cancel := func() {
		qp.subMu.Lock()
		defer qp.subMu.Unlock()
		if existing, ok := qp.subs[id]; ok {
			delete(qp.subs, id)
			close(existing.ch)
		}
	}
	return sub.ch, cancel
}

// SubscriberCount -> jumlah subscriber aktif.
func (qp *QueueProjector) SubscriberCount() int {
	qp.subMu.Lock()
	defer qp.subMu.Unlock()
	return len(qp.subs)
}

// publish mendorong snapshot terbaru; subscriber yang buffernya penuh
// dilewati, snapshot berikutnya akan menyusul.
func (qp *QueueProjector) publish() {
	full := qp.Snapshot()

	qp.subMu.Lock()
	defer qp.subMu.Unlock()
	for _, sub := range qp.subs {
		snap := full
		if sub.filter != nil {
			snap = qp.snapshotFiltered(sub.filter, time.Time{}, time.Time{})
		}
		select {
		case sub.ch <- snap:
		default:
		}
	}
}
