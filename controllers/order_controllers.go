package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type OrderController struct {
	DB        *gorm.DB
	Admission *services.AdmissionService
	Lifecycle *services.LifecycleService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:        db,
		Admission: services.NewAdmissionService(db),
		Lifecycle: services.NewLifecycleService(db),
	}
}

// admissionResponse mengikuti kontrak API admission: kode error stabil
// untuk branching client, message untuk ditampilkan.
type admissionResponse struct {
	Success             bool       `json:"success"`
	OrderID             uint       `json:"order_id,omitempty"`
	OrderCode           string     `json:"order_code,omitempty"`
	SlotID              uint       `json:"slot_id,omitempty"`
	EstimatedPickupTime *time.Time `json:"estimated_pickup_time,omitempty"`
	Message             string     `json:"message"`
	ErrorCode           string     `json:"error_code,omitempty"`
}

// PlaceOrder -> endpoint admission: reservasi kapasitas slot + buat order
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req services.AdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, admissionResponse{
			Success:   false,
			Message:   "Body request tidak valid",
			ErrorCode: services.CodeInvalidInput,
		})
		return
	}

	result, aerr := oc.Admission.PlaceOrder(req)
	if aerr != nil {
		c.JSON(httpStatusForCode(aerr.Code), admissionResponse{
			Success:   false,
			Message:   aerr.Message,
			ErrorCode: aerr.Code,
		})
		return
	}

	pickup := result.EstimatedPickupTime
	c.JSON(http.StatusCreated, admissionResponse{
		Success:             true,
		OrderID:             result.OrderID,
		OrderCode:           result.OrderCode,
		SlotID:              result.SlotID,
		EstimatedPickupTime: &pickup,
		Message: fmt.Sprintf("Order %s dibuat, total %s, ambil pukul %s",
			result.OrderCode,
			utils.FormatCurrencyIDR(result.TotalAmount),
			result.EstimatedPickupTime.Format("15:04")),
	})
}

// httpStatusForCode memetakan kode admission ke status HTTP.
func httpStatusForCode(code string) int {
	switch code {
	case services.CodeInvalidInput:
		return http.StatusBadRequest
	case services.CodeSlotNotFound:
		return http.StatusNotFound
	case services.CodeAdminPaused, services.CodeNotOpenYet, services.CodeClosedForDay:
		return http.StatusForbidden
	case services.CodeKitchenOverloaded, services.CodeNoAvailableSlots, services.CodeAllSlotsFull:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetAllOrders -> list orders beserta items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Items")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var orders []models.Order
	if err := query.Order("placed_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidInput, "order_id tidak valid")
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Slot").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> transisi status order oleh staff dapur
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidInput, "order_id tidak valid")
		return
	}

	type statusReq struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	var body statusReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.Transition(uint(orderID), body.Status, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidTransition):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondErrorCode(c, http.StatusInternalServerError, services.CodeTransactionFailed, "Update status gagal")
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> batalkan order; kapasitas slot dikembalikan
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidInput, "order_id tidak valid")
		return
	}

	type cancelReq struct {
		Reason string `json:"reason"`
	}
	var body cancelReq
	// body opsional
	_ = c.ShouldBindJSON(&body)

	order, err := oc.Lifecycle.Cancel(uint(orderID), body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidTransition):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondErrorCode(c, http.StatusInternalServerError, services.CodeTransactionFailed, "Pembatalan gagal")
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
