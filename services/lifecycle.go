package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// Edge yang diizinkan state machine order. Status terminal tidak punya
// outgoing edge; transisi ke status yang sama diperlakukan no-op.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing: {models.OrderReady, models.OrderCancelled},
	models.OrderReady:     {models.OrderCompleted, models.OrderCancelled},
	models.OrderCompleted: {},
	models.OrderCancelled: {},
}

// CanTransition -> apakah edge from->to ada di state machine.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LifecycleService menggerakkan transisi status order dan kompensasi
// kapasitas slot saat pembatalan.
type LifecycleService struct {
	DB *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{DB: db}
}

// Transition memindahkan order ke status target.
// Idempoten: target sama dengan status sekarang -> no-op tanpa error.
// Edge di luar state machine -> ErrInvalidTransition, tidak ada yang berubah.
// Pembatalan mengembalikan kapasitas slot dalam transaksi yang sama.
func (ls *LifecycleService) Transition(orderID uint, target models.OrderStatus, reason string) (*models.Order, error) {
	var order models.Order
	var event *models.OrderEvent

	err := ls.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if order.Status == target {
			return nil
		}
		if !CanTransition(order.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
		}

		now := time.Now()
		oldStatus := order.Status
		order.Status = target

		// Timestamp distempel sekali pada transisi yang cocok.
		switch target {
		case models.OrderConfirmed:
			if order.ConfirmedAt == nil {
				order.ConfirmedAt = &now
			}
		case models.OrderReady:
			if order.ReadyAt == nil {
				order.ReadyAt = &now
			}
		case models.OrderCompleted:
			if order.CompletedAt == nil {
				order.CompletedAt = &now
			}
		case models.OrderCancelled:
			if reason != "" {
				order.CancellationReason = &reason
			}
			if err := releaseSlotCapacity(tx, order.SlotID, now); err != nil {
				return err
			}
		}

		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		event = &models.OrderEvent{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: target,
			SlotID:    order.SlotID,
			ChangedAt: now,
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return nil, err
	}

	// Outbox row yang baru commit akan dipungut EventMonitor dan
	// disiarkan ke dispatcher notifikasi / dashboard dari sana.
	if event != nil {
		utils.InfoLogger.Printf("order %s: %s -> %s", order.PublicCode, event.OldStatus, event.NewStatus)
	}
	return &order, nil
}

// Cancel membatalkan order dengan alasan.
func (ls *LifecycleService) Cancel(orderID uint, reason string) (*models.Order, error) {
	return ls.Transition(orderID, models.OrderCancelled, reason)
}

// releaseSlotCapacity adalah kompensasi pembatalan: decrement counter slot,
// dan buka lagi slot yang tadinya full — kecuali ditutup manual oleh admin,
// penutupan manual menang atas auto-reopen.
func releaseSlotCapacity(tx *gorm.DB, slotID uint, now time.Time) error {
	res := tx.Model(&models.Slot{}).
		Where("id = ? AND current_count > 0", slotID).
		Update("current_count", gorm.Expr("current_count - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Counter sudah nol; tidak ada yang bisa dikembalikan.
		utils.ErrorLogger.Printf("kompensasi slot %d: current_count sudah 0", slotID)
		return nil
	}

	var slot models.Slot
	if err := tx.First(&slot, slotID).Error; err != nil {
		return err
	}
	if slot.Status == models.SlotFull && slot.ManuallyClosedBy == nil && slot.HasCapacity() {
		return tx.Model(&slot).Updates(map[string]interface{}{
			"status":         models.SlotOpen,
			"auto_closed_at": nil,
		}).Error
	}
	return nil
}
