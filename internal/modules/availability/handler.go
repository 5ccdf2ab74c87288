package availability

import (
	"log"
	"net/http"
	"strconv"

	avail "studyhall/internal/availability"
	"studyhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS middleware for the REST
	// surface; the availability feed is public read-only data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	manager *avail.Manager
}

func NewHandler(manager *avail.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/halls/:id/availability", h.GetSnapshot)
	rg.GET("/halls/:id/availability/ws", h.Watch)
}

// GetSnapshot returns the current reconciled availability for a hall.
func (h *Handler) GetSnapshot(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	snap, err := h.manager.Snapshot(c.Request.Context(), hallID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, snap)
}

// Watch upgrades to a websocket and streams availability snapshots.
// The first message is the current state; afterwards the client gets
// a fresh snapshot whenever the hall's bookings change.
func (h *Handler) Watch(c *gin.Context) {
	hallID, ok := hallIDParam(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("level=error msg=websocket upgrade failed hall_id=%d err=%v", hallID, err)
		return
	}

	hub := h.manager.Hub()
	hub.Register(hallID, conn)
	sub := h.manager.Ensure(hallID)

	if snap := sub.Snapshot(); snap != nil {
		if err := hub.Send(hallID, conn, snap); err != nil {
			hub.Unregister(hallID, conn)
			h.manager.ReleaseIfIdle(hallID)
			return
		}
	}

	// Consume control frames until the client goes away.
	go func() {
		defer func() {
			hub.Unregister(hallID, conn)
			h.manager.ReleaseIfIdle(hallID)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func hallIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hall ID")
		return 0, false
	}
	return id, true
}
