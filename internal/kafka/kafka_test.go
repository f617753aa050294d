package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_RoutesByEventKind(t *testing.T) {
	vitals, alerts := &fakeWriter{}, &fakeWriter{}
	p := NewProducer(vitals, alerts)

	snap := models.VitalSigns{RoomNumber: "205", OxygenSaturation: 80, Status: models.StatusCritical}
	require.NoError(t, p.Deliver(context.Background(), models.Event{Kind: models.EventSnapshot, Snapshot: &snap}))
	require.NoError(t, p.Deliver(context.Background(), models.Event{Kind: models.EventAlert, Alert: &models.Alert{RoomNumber: "205", Type: models.AlertTypeAlert}}))

	require.Len(t, vitals.msgs, 1)
	require.Len(t, alerts.msgs, 1)
	assert.Equal(t, "205", string(vitals.msgs[0].Key))

	var got models.VitalSigns
	require.NoError(t, json.Unmarshal(vitals.msgs[0].Value, &got))
	assert.Equal(t, snap, got)

	require.NoError(t, p.Close())
	assert.True(t, vitals.closed)
	assert.True(t, alerts.closed)
}

func TestProducer_WrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewProducer(&fakeWriter{err: boom}, &fakeWriter{})
	err := p.Deliver(context.Background(), models.Event{Kind: models.EventSnapshot, Snapshot: &models.VitalSigns{RoomNumber: "1"}})
	assert.ErrorIs(t, err, boom)
	assert.Error(t, p.Deliver(context.Background(), models.Event{Kind: models.EventAlert}))
}

type update struct {
	room string
	u    models.VitalSignsUpdate
}

type fakeUpdater struct {
	mu      sync.Mutex
	updates []update
	err     error
}

func (f *fakeUpdater) Update(room string, u models.VitalSignsUpdate) (models.VitalSigns, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.VitalSigns{}, f.err
	}
	f.updates = append(f.updates, update{room, u})
	return models.VitalSigns{RoomNumber: room}, nil
}

func (f *fakeUpdater) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestConsumer_Handle(t *testing.T) {
	up := &fakeUpdater{}
	c := NewConsumer(nil, up, logging.NewNop())

	require.NoError(t, c.handle(kafka.Message{Value: []byte(`{"roomNumber":"205","oxygenSaturation":80,"bloodPressure":{"systolic":150}}`)}))
	require.Len(t, up.updates, 1)
	assert.Equal(t, "205", up.updates[0].room)
	require.NotNil(t, up.updates[0].u.OxygenSaturation)
	assert.Equal(t, 80.0, *up.updates[0].u.OxygenSaturation)
	require.NotNil(t, up.updates[0].u.BloodPressure)
	assert.Nil(t, up.updates[0].u.BloodPressure.Diastolic)

	require.NoError(t, c.handle(kafka.Message{Key: []byte("7"), Value: []byte(`{"heartRate":130}`)}))
	assert.Equal(t, "7", up.updates[1].room)
}

func TestConsumer_HandleRejectsInvalid(t *testing.T) {
	up := &fakeUpdater{}
	c := NewConsumer(nil, up, logging.NewNop())

	assert.Error(t, c.handle(kafka.Message{Value: []byte(`not json`)}))
	assert.Error(t, c.handle(kafka.Message{Value: []byte(`{"heartRate":90}`)}))
	assert.Empty(t, up.updates)

	up.err = errors.New("generator down")
	assert.Error(t, c.handle(kafka.Message{Value: []byte(`{"roomNumber":"1"}`)}))
}

type fakeReader struct {
	msgs   chan kafka.Message
	mu     sync.Mutex
	closed bool
	fail   int
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.fail > 0 {
		r.fail--
		r.mu.Unlock()
		return kafka.Message{}, errors.New("broker unreachable")
	}
	r.mu.Unlock()
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-r.msgs:
		return m, nil
	}
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestConsumer_StartAppliesUntilCancelled(t *testing.T) {
	reader := &fakeReader{msgs: make(chan kafka.Message, 4), fail: 1}
	up := &fakeUpdater{}
	c := NewConsumer(reader, up, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	c.Start(ctx, &wg)

	reader.msgs <- kafka.Message{Value: []byte(`{"roomNumber":"1","temperature":101.2}`)}
	reader.msgs <- kafka.Message{Value: []byte(`garbage`)}
	reader.msgs <- kafka.Message{Value: []byte(`{"roomNumber":"2"}`)}

	require.Eventually(t, func() bool { return up.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()
	assert.True(t, reader.closed)
}
