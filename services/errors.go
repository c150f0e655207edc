package services

import (
	"errors"
	"fmt"
)

// Kode error stabil untuk client branching; wording message boleh berubah,
// kode tidak.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeAdminPaused       = "ADMIN_PAUSED"
	CodeNotOpenYet        = "NOT_OPEN_YET"
	CodeClosedForDay      = "CLOSED_FOR_DAY"
	CodeKitchenOverloaded = "KITCHEN_OVERLOADED"
	CodeSlotNotFound      = "SLOT_NOT_FOUND"
	CodeNoAvailableSlots  = "NO_AVAILABLE_SLOTS"
	CodeAllSlotsFull      = "ALL_SLOTS_FULL"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeUnknownError      = "UNKNOWN_ERROR"

	// Kode slot-level dari evaluator; hanya dipakai saat seleksi slot,
	// tidak pernah sampai ke caller.
	CodeSlotExpired    = "SLOT_EXPIRED"
	CodeSlotTooSoon    = "SLOT_TOO_SOON"
	CodeManuallyClosed = "MANUALLY_CLOSED"
)

// errSlotFullRace menandai race loss di dalam transaksi reservasi:
// kapasitas yang terlihat saat seleksi sudah dimakan admission lain.
// Internal saja, selalu berujung retry atau ALL_SLOTS_FULL.
var errSlotFullRace = errors.New("slot capacity consumed by concurrent order")

// ErrInvalidTransition dikembalikan state machine untuk edge yang tidak diizinkan.
var ErrInvalidTransition = errors.New("invalid order status transition")

// AdmissionError adalah penolakan admission dengan kode stabil + pesan untuk user.
type AdmissionError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAdmissionError(code, message string) *AdmissionError {
	return &AdmissionError{Code: code, Message: message}
}
