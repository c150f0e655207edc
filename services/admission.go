package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// maxReserveAttempts membatasi retry saat kalah race di transaksi reservasi.
// Harus finite: retry tanpa batas adalah liveness bug.
const maxReserveAttempts = 3

type ItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type AdmissionRequest struct {
	UserID          string        `json:"user_id"`
	UserName        string        `json:"user_name"`
	Items           []ItemRequest `json:"items"`
	PreferredSlotID uint          `json:"preferred_slot_id,omitempty"`
}

type AdmissionResult struct {
	OrderID             uint      `json:"order_id"`
	OrderCode           string    `json:"order_code"`
	SlotID              uint      `json:"slot_id"`
	EstimatedPickupTime time.Time `json:"estimated_pickup_time"`
	TotalAmount         float64   `json:"total_amount"`
}

// AdmissionService mengorkestrasi evaluator + selector + reservasi atomik.
type AdmissionService struct {
	DB *gorm.DB
}

func NewAdmissionService(db *gorm.DB) *AdmissionService {
	return &AdmissionService{DB: db}
}

// PlaceOrder menjalankan satu admission request end-to-end:
// validasi -> cutoff otoritatif -> pilih kandidat -> reservasi atomik
// dengan retry terbatas ke kandidat berikutnya saat kalah race.
func (as *AdmissionService) PlaceOrder(req AdmissionRequest) (*AdmissionResult, *AdmissionError) {
	now := time.Now()

	if aerr := validateRequest(&req); aerr != nil {
		return nil, aerr
	}

	settings, err := as.FetchSettings()
	if err != nil {
		utils.ErrorLogger.Printf("admission: gagal baca settings: %v", err)
		return nil, NewAdmissionError(CodeUnknownError, "Terjadi kesalahan, coba lagi")
	}

	activeOrders, err := as.countKitchenOrders()
	if err != nil {
		utils.ErrorLogger.Printf("admission: gagal hitung order aktif: %v", err)
		return nil, NewAdmissionError(CodeUnknownError, "Terjadi kesalahan, coba lagi")
	}

	// Cutoff global otoritatif; tidak perlu re-check di dalam transaksi.
	if d := EvaluateCutoffs(now, settings, activeOrders, nil); !d.Allow {
		return nil, NewAdmissionError(d.Code, d.Message)
	}

	if req.PreferredSlotID != 0 {
		var count int64
		if err := as.DB.Model(&models.Slot{}).Where("id = ?", req.PreferredSlotID).Count(&count).Error; err != nil {
			utils.ErrorLogger.Printf("admission: gagal cek preferred slot: %v", err)
			return nil, NewAdmissionError(CodeUnknownError, "Terjadi kesalahan, coba lagi")
		}
		if count == 0 {
			return nil, NewAdmissionError(CodeSlotNotFound, "Slot yang dipilih tidak ditemukan")
		}
	}

	slots, err := as.fetchCandidateSlots(now)
	if err != nil {
		utils.ErrorLogger.Printf("admission: gagal baca daftar slot: %v", err)
		return nil, NewAdmissionError(CodeUnknownError, "Terjadi kesalahan, coba lagi")
	}

	tried := make(map[uint]bool)
	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		candidate, ok := SelectSlot(now, settings, slots, req.PreferredSlotID, tried)
		if !ok {
			if len(tried) == 0 {
				return nil, NewAdmissionError(CodeNoAvailableSlots, "Tidak ada slot pengambilan yang tersedia")
			}
			return nil, NewAdmissionError(CodeAllSlotsFull, "Semua slot pengambilan sudah penuh")
		}

		result, err := as.reserve(now, &req, candidate.ID)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, errSlotFullRace) {
			// Race loss, bukan user error: kandidat berikutnya.
			utils.InfoLogger.Printf("admission: slot %d keburu penuh (percobaan %d/%d), coba slot lain",
				candidate.ID, attempt, maxReserveAttempts)
			tried[candidate.ID] = true
			continue
		}
		utils.ErrorLogger.Printf("admission: transaksi reservasi slot %d gagal: %v", candidate.ID, err)
		return nil, NewAdmissionError(CodeTransactionFailed, "Reservasi gagal, coba lagi")
	}
	return nil, NewAdmissionError(CodeAllSlotsFull, "Semua slot pengambilan sudah penuh")
}

// reserveDecision memutuskan, dari state slot yang baru dibaca, apakah
// reservasi boleh commit. Dipisah dari kebijakan retry supaya keduanya
// bisa diuji sendiri-sendiri.
func reserveDecision(slot *models.Slot) error {
	if slot.Status == models.SlotClosed {
		return errSlotFullRace
	}
	if slot.CurrentCount >= slot.MaxCapacity {
		return errSlotFullRace
	}
	return nil
}

// reserve menjalankan satu percobaan reservasi atomik: increment kapasitas
// dan pembuatan order commit dalam satu transaksi; kalau salah satu gagal,
// dua-duanya batal.
func (as *AdmissionService) reserve(now time.Time, req *AdmissionRequest, slotID uint) (*AdmissionResult, error) {
	var result AdmissionResult

	err := as.DB.Transaction(func(tx *gorm.DB) error {
		var slot models.Slot
		if err := tx.First(&slot, slotID).Error; err != nil {
			return err
		}
		if err := reserveDecision(&slot); err != nil {
			return err
		}

		// Guarded update: kondisi WHERE mengulang cek kapasitas supaya
		// increment tetap aman saat writer lain menyela di antara read
		// dan update. 0 row -> kalah race.
		res := tx.Model(&models.Slot{}).
			Where("id = ? AND current_count < max_capacity AND status <> ?", slotID, models.SlotClosed).
			Update("current_count", gorm.Expr("current_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSlotFullRace
		}

		if err := tx.First(&slot, slotID).Error; err != nil {
			return err
		}
		if slot.CurrentCount >= slot.MaxCapacity {
			if err := tx.Model(&slot).Updates(map[string]interface{}{
				"status":         models.SlotFull,
				"auto_closed_at": now,
			}).Error; err != nil {
				return err
			}
		}

		order := models.Order{
			PublicCode: "ORD-" + strings.ToUpper(uuid.New().String()[:8]),
			UserID:     req.UserID,
			UserName:   req.UserName,
			SlotID:     slot.ID,
			Status:     models.OrderPending,
			PlacedAt:   now,
		}
		for _, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
			order.TotalAmount += float64(item.Quantity) * item.Price
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		event := models.OrderEvent{
			OrderID:   order.ID,
			NewStatus: models.OrderPending,
			SlotID:    slot.ID,
			ChangedAt: now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		result = AdmissionResult{
			OrderID:             order.ID,
			OrderCode:           order.PublicCode,
			SlotID:              slot.ID,
			EstimatedPickupTime: slot.StartTime,
			TotalAmount:         order.TotalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func validateRequest(req *AdmissionRequest) *AdmissionError {
	if strings.TrimSpace(req.UserID) == "" {
		return NewAdmissionError(CodeInvalidInput, "user_id wajib diisi")
	}
	if strings.TrimSpace(req.UserName) == "" {
		return NewAdmissionError(CodeInvalidInput, "user_name wajib diisi")
	}
	if len(req.Items) == 0 {
		return NewAdmissionError(CodeInvalidInput, "Order minimal berisi satu item")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return NewAdmissionError(CodeInvalidInput, fmt.Sprintf("Item ke-%d tidak punya nama", i+1))
		}
		if item.Quantity <= 0 {
			return NewAdmissionError(CodeInvalidInput, fmt.Sprintf("Jumlah item %q harus lebih dari 0", item.Name))
		}
		if item.Price < 0 {
			return NewAdmissionError(CodeInvalidInput, fmt.Sprintf("Harga item %q tidak valid", item.Name))
		}
	}
	return nil
}

// FetchSettings membaca row GlobalSettings; kalau belum ada, pakai default.
func (as *AdmissionService) FetchSettings() (models.GlobalSettings, error) {
	var settings models.GlobalSettings
	err := as.DB.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultGlobalSettings(), nil
		}
		return settings, err
	}
	return settings, nil
}

// countKitchenOrders menghitung order yang sedang membebani dapur.
func (as *AdmissionService) countKitchenOrders() (int, error) {
	var count int64
	err := as.DB.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderPreparing}).
		Count(&count).Error
	return int(count), err
}

// fetchCandidateSlots membaca slot hari ini ke depan, terurut untuk selector.
// Snapshot di luar transaksi; state final diverifikasi ulang saat reservasi.
func (as *AdmissionService) fetchCandidateSlots(now time.Time) ([]models.Slot, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var slots []models.Slot
	err := as.DB.
		Where("date >= ?", startOfDay).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}
