package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

type SlotController struct {
	DB        *gorm.DB
	Admission *services.AdmissionService
}

func NewSlotController(db *gorm.DB) *SlotController {
	return &SlotController{
		DB:        db,
		Admission: services.NewAdmissionService(db),
	}
}

// slotView melampirkan flag viable supaya client tidak perlu menghitung
// sendiri buffer/cutoff.
type slotView struct {
	models.Slot
	Viable    bool `json:"viable"`
	Remaining int  `json:"remaining"`
}

// GetSlots -> daftar slot hari ini ke depan, dengan status kelayakan
func (sc *SlotController) GetSlots(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	settings, err := sc.Admission.FetchSettings()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var slots []models.Slot
	if err := sc.DB.Where("date >= ?", startOfDay).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]slotView, 0, len(slots))
	for i := range slots {
		views = append(views, slotView{
			Slot:      slots[i],
			Viable:    services.SlotViable(now, settings, &slots[i]) && slots[i].HasCapacity() && slots[i].Status != models.SlotClosed,
			Remaining: slots[i].MaxCapacity - slots[i].CurrentCount,
		})
	}
	utils.RespondJSON(c, http.StatusOK, "List of slots", views)
}

// GetSlotByID -> detail 1 slot
func (sc *SlotController) GetSlotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidInput, "slot_id tidak valid")
		return
	}

	var slot models.Slot
	if err := sc.DB.First(&slot, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Slot detail", slot)
}
