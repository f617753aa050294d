package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestWebSocketManager_DeliversToRoomAndWildcard(t *testing.T) {
	m := NewWebSocketManager(logging.NewNop(), 10)
	room, other, all := &fakeConn{}, &fakeConn{}, &fakeConn{}
	require.NoError(t, m.AddConnection("101", room))
	require.NoError(t, m.AddConnection("102", other))
	require.NoError(t, m.AddConnection(AllRooms, all))

	snap := models.VitalSigns{RoomNumber: "101", HeartRate: 72, Status: models.StatusNormal}
	require.NoError(t, m.Deliver(context.Background(), models.Event{Kind: models.EventSnapshot, Snapshot: &snap}))

	require.Len(t, room.messages, 1)
	assert.Empty(t, other.messages)
	require.Len(t, all.messages, 1)

	var env struct {
		Type string            `json:"type"`
		Data models.VitalSigns `json:"data"`
	}
	require.NoError(t, json.Unmarshal(room.messages[0], &env))
	assert.Equal(t, EventVitalsUpdate, env.Type)
	assert.Equal(t, snap, env.Data)
}

func TestWebSocketManager_AlertEnvelope(t *testing.T) {
	m := NewWebSocketManager(logging.NewNop(), 10)
	conn := &fakeConn{}
	require.NoError(t, m.AddConnection("5", conn))

	alert := models.Alert{Type: models.AlertTypeAlert, RoomNumber: "5", Status: models.StatusCritical}
	require.NoError(t, m.Deliver(context.Background(), models.Event{Kind: models.EventAlert, Alert: &alert}))

	require.Len(t, conn.messages, 1)
	assert.Contains(t, string(conn.messages[0]), `"type":"alert_created"`)
}

func TestWebSocketManager_DropsBrokenConnections(t *testing.T) {
	m := NewWebSocketManager(logging.NewNop(), 10)
	broken := &fakeConn{writeErr: errors.New("closed pipe")}
	require.NoError(t, m.AddConnection("1", broken))

	m.SendToRoom("1", []byte("x"))
	assert.True(t, broken.closed)
	assert.Equal(t, 0, m.Count("1"))
}

func TestWebSocketManager_ConnectionLimit(t *testing.T) {
	m := NewWebSocketManager(logging.NewNop(), 2)
	require.NoError(t, m.AddConnection("1", &fakeConn{}))
	require.NoError(t, m.AddConnection("1", &fakeConn{}))
	assert.ErrorIs(t, m.AddConnection("1", &fakeConn{}), ErrTooManyConnections)

	c := &fakeConn{}
	require.NoError(t, m.AddConnection("2", c))
	m.RemoveConnection("2", c)
	m.RemoveConnection("2", c)
	assert.Equal(t, 0, m.Count("2"))
}

func TestWebSocketManager_RejectsEmptyEvent(t *testing.T) {
	m := NewWebSocketManager(logging.NewNop(), 1)
	assert.Error(t, m.Deliver(context.Background(), models.Event{Kind: models.EventSnapshot}))
}
