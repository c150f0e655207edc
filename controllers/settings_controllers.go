package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

// SettingsController hanya membaca GlobalSettings; penulisan dilakukan
// panel admin di luar service ini.
type SettingsController struct {
	Admission *services.AdmissionService
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{Admission: services.NewAdmissionService(db)}
}

// GetSettings -> konfigurasi kantin yang sedang berlaku
func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.Admission.FetchSettings()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Canteen settings", settings)
}
