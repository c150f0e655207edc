package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/canteen-app/config"
	"github.com/yeremiapane/canteen-app/database"
	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/queue"
	"github.com/yeremiapane/canteen-app/router"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database ke utils untuk dipakai lintas package
	utils.InitDB(db)

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Seed slot hari ini untuk development (penjadwalan produksi datang
	// dari proses eksternal)
	if os.Getenv("SEED_SLOTS") == "true" {
		if err := database.SeedSlots(db, time.Now()); err != nil {
			utils.ErrorLogger.Printf("Failed to seed slots: %v", err)
		}
	}

	// Projector + event monitor: proyeksi antrian dan fanout event
	projector := services.NewQueueProjector()
	monitor := services.NewEventMonitor(db, projector)
	monitor.Interval = 500 * time.Millisecond
	if err := monitor.Prime(); err != nil {
		utils.ErrorLogger.Printf("Failed to prime queue projector: %v", err)
	}
	monitor.Start()
	defer monitor.Stop()

	// Jembatan projector -> websocket hub untuk dashboard
	snapshots, cancel := projector.Subscribe()
	defer cancel()
	go func() {
		for snap := range snapshots {
			queue.BroadcastQueueUpdate(snap)
		}
	}()

	// Setup router
	r := router.SetupRouter(db, projector)

	// Rate limiter global per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Set trusted proxies
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
