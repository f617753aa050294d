package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vitals-service/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamVitals upgrades the request and subscribes it to one room, or to
// every room when no room is given. Writes are owned by the manager; this
// goroutine only reads until the client goes away.
func (h *Handler) StreamVitals(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		room = services.AllRooms
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed for room %s: %v", room, err)
		return
	}

	if err := h.ws.AddConnection(room, conn); err != nil {
		code := websocket.CloseInternalServerErr
		if errors.Is(err, services.ErrTooManyConnections) {
			code = websocket.CloseTryAgainLater
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()))
		_ = conn.Close()
		return
	}
	defer func() {
		h.ws.RemoveConnection(room, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnf("WebSocket read error for room %s: %v", room, err)
			}
			return
		}
	}
}
