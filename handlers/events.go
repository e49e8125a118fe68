package handlers

import (
	"net/http"
	"time"

	"clinicbook/services/notifier"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement belongs to the gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams booking lifecycle events over a websocket. Events
// are refresh hints only: a client that misses one still converges on the
// next availability fetch.
type EventsHandler struct {
	Hub *notifier.Hub
}

func NewEventsHandler(hub *notifier.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

// Stream handles GET /api/events/ws.
func (h *EventsHandler) Stream(c *gin.Context) {
	logger := utils.GetLogger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := h.Hub.Subscribe()

	// Reader: we expect no client messages, but reading drives pong
	// handling and detects the peer going away.
	go func() {
		defer sub.Close()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
