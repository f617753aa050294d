package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
)

// AllRooms is the subscription key of clients that follow every room.
const AllRooms = "*"

const (
	EventVitalsUpdate = "vitals_update"
	EventAlertCreated = "alert_created"

	writeWait = 5 * time.Second
)

var ErrTooManyConnections = errors.New("max websocket connections reached")

// Conn is the part of a websocket connection the manager writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Envelope is the JSON frame pushed to websocket clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// WebSocketManager manages WebSocket connections per room
type WebSocketManager struct {
	connections map[string]map[Conn]bool // room -> set of connections
	mutex       sync.Mutex
	maxPerRoom  int
	logger      *logging.Logger
}

func NewWebSocketManager(logger *logging.Logger, maxPerRoom int) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]map[Conn]bool),
		maxPerRoom:  maxPerRoom,
		logger:      logger,
	}
}

// AddConnection adds a WebSocket connection
func (m *WebSocketManager) AddConnection(room string, conn Conn) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.connections[room]; !exists {
		m.connections[room] = make(map[Conn]bool)
	}
	if m.maxPerRoom > 0 && len(m.connections[room]) >= m.maxPerRoom {
		m.logger.Warnf("Max connections reached for room %s", room)
		return ErrTooManyConnections
	}
	m.connections[room][conn] = true
	m.logger.Infof("Added WebSocket connection for room %s (total: %d)", room, len(m.connections[room]))
	return nil
}

// RemoveConnection removes a WebSocket connection
func (m *WebSocketManager) RemoveConnection(room string, conn Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[room]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(m.connections, room)
		}
		m.logger.Infof("Removed WebSocket connection for room %s (remaining: %d)", room, len(conns))
	}
}

// Count returns the number of connections subscribed to a room key.
func (m *WebSocketManager) Count(room string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.connections[room])
}

func (m *WebSocketManager) Name() string { return "websocket" }

// Deliver pushes the event to the room's subscribers and to AllRooms subscribers.
func (m *WebSocketManager) Deliver(_ context.Context, event models.Event) error {
	var env Envelope
	switch {
	case event.Kind == models.EventSnapshot && event.Snapshot != nil:
		env = Envelope{Type: EventVitalsUpdate, Data: event.Snapshot}
	case event.Kind == models.EventAlert && event.Alert != nil:
		env = Envelope{Type: EventAlertCreated, Data: event.Alert}
	default:
		return fmt.Errorf("unsupported event kind %q", event.Kind)
	}
	message, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Type, err)
	}
	m.SendToRoom(event.RoomKey(), message)
	return nil
}

// SendToRoom sends a message to the room's connections and to every AllRooms connection
func (m *WebSocketManager) SendToRoom(room string, message []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.send(room, message)
	if room != AllRooms {
		m.send(AllRooms, message)
	}
}

func (m *WebSocketManager) send(room string, message []byte) {
	conns, exists := m.connections[room]
	if !exists {
		return
	}
	for conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			m.logger.Errorf("Failed to send WebSocket message for room %s: %v", room, err)
			_ = conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(m.connections, room)
	}
}
