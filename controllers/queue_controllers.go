package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/queue"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

type QueueController struct {
	Projector *services.QueueProjector
}

func NewQueueController(projector *services.QueueProjector) *QueueController {
	return &QueueController{Projector: projector}
}

// GetQueue -> snapshot antrian, filter opsional lewat query:
// ?status=pending,preparing&from=2026-08-30&to=2026-08-31
func (qc *QueueController) GetQueue(c *gin.Context) {
	var statuses []models.OrderStatus
	if raw, ok := c.GetQueryArray("status"); ok {
		for _, s := range raw {
			statuses = append(statuses, models.OrderStatus(s))
		}
	}

	from := parseDateQuery(c.Query("from"))
	to := parseDateQuery(c.Query("to"))
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1) // inklusif sampai akhir hari
	}

	snap := qc.Projector.FetchSnapshot(from, to, statuses...)
	utils.RespondJSON(c, http.StatusOK, "Queue snapshot", snap)
}

func parseDateQuery(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// QueueSocket -> endpoint WebSocket untuk dashboard antrian
func (qc *QueueController) QueueSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	queue.RegisterClient(ws)
	defer queue.UnregisterClient(ws)

	// Kirim snapshot awal supaya dashboard langsung terisi
	initial := queue.Message{
		Event: queue.EventQueueUpdate,
		Data:  qc.Projector.Snapshot(),
	}
	if err := ws.WriteJSON(initial); err != nil {
		return
	}

	// Update berikutnya datang lewat broadcast hub; baca pesan sampai
	// client disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
