package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/controllers"
	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func SetupRouter(db *gorm.DB, projector *services.QueueProjector) *gin.Engine {
	utils.InitDB(db)

	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	orderCtrl := controllers.NewOrderController(db)
	slotCtrl := controllers.NewSlotController(db)
	settingsCtrl := controllers.NewSettingsController(db)
	queueCtrl := controllers.NewQueueController(projector)

	r.GET("/ping", func(c *gin.Context) {
		if sqlDB, err := utils.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(503, gin.H{"message": "database unavailable"})
			return
		}
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      ADMISSION
	// ----------------------------------------------------------------
	admission := r.Group("/")
	admission.Use(middlewares.NewAdmissionRateLimiter())
	{
		admission.POST("/orders", orderCtrl.PlaceOrder)
	}

	// ----------------------------------------------------------------
	//                      ORDERS & LIFECYCLE
	// ----------------------------------------------------------------
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

	// ----------------------------------------------------------------
	//                      SLOTS & SETTINGS
	// ----------------------------------------------------------------
	r.GET("/slots", slotCtrl.GetSlots)
	r.GET("/slots/:slot_id", slotCtrl.GetSlotByID)
	r.GET("/settings", settingsCtrl.GetSettings)

	// ----------------------------------------------------------------
	//                      QUEUE DASHBOARD
	// ----------------------------------------------------------------
	r.GET("/queue", queueCtrl.GetQueue)
	r.GET("/queue/ws", queueCtrl.QueueSocket)

	return r
}
