package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
	"vitals-service/internal/store"
	"vitals-service/internal/vitals"
)

type queueRecorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (q *queueRecorder) Queue(e models.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
	return true
}

func (q *queueRecorder) alerts() []models.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []models.Alert
	for _, e := range q.events {
		if e.Kind == models.EventAlert {
			out = append(out, *e.Alert)
		}
	}
	return out
}

func (q *queueRecorder) snapshots() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, e := range q.events {
		if e.Kind == models.EventSnapshot {
			n++
		}
	}
	return n
}

// failingGenerator fails for the rooms in bad and delegates otherwise.
type failingGenerator struct {
	next Generator
	bad  map[string]bool
	pan  bool
}

func (g failingGenerator) Generate(p models.RoomPattern, now time.Time) (models.VitalSigns, error) {
	if g.bad[p.RoomNumber] {
		if g.pan {
			panic("sensor exploded")
		}
		return models.VitalSigns{}, errors.New("sensor offline")
	}
	return g.next.Generate(p, now)
}

// normalPatterns always draws the lower bound: condition normal, no phase, minimum noise.
func normalPatterns() *store.PatternStore {
	return store.NewPatternStore(store.WithDraw(func(min, max float64) float64 { return min }))
}

func newTestMonitor(gen Generator) (*Monitor, *queueRecorder) {
	q := &queueRecorder{}
	if gen == nil {
		gen = vitals.NewGenerator()
	}
	m := New(normalPatterns(), store.NewLiveCache(), gen, q, logging.NewNop())
	return m, q
}

func ptr(v float64) *float64 { return &v }

func TestMonitor_GetActivatesLazilyAndCaches(t *testing.T) {
	m, q := newTestMonitor(nil)

	first, err := m.Get("101")
	require.NoError(t, err)
	assert.Equal(t, "101", first.RoomNumber)

	second, err := m.Get("101")
	require.NoError(t, err)
	assert.Equal(t, first, second, "reads without a refresh must return the cached snapshot")

	rooms := m.Rooms()
	assert.Equal(t, []string{"101"}, rooms.ActiveRooms)
	assert.Equal(t, models.ConditionNormal, rooms.RoomPatterns["101"])
	assert.Equal(t, 1, q.snapshots())
}

func TestMonitor_ActivateTwice(t *testing.T) {
	m, _ := newTestMonitor(nil)

	v, already, err := m.Activate("101")
	require.NoError(t, err)
	assert.False(t, already)

	again, already, err := m.Activate("101")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, v, again)
}

func TestMonitor_DeactivateIsIdempotent(t *testing.T) {
	m, _ := newTestMonitor(nil)
	_, _, err := m.Activate("7")
	require.NoError(t, err)

	assert.True(t, m.Deactivate("7"))
	assert.Equal(t, 0, m.Health().ActiveRooms)
	assert.Equal(t, 0, m.Health().TotalPatterns)

	assert.False(t, m.Deactivate("7"))
	assert.False(t, m.Deactivate("never-seen"))
}

func TestMonitor_UpdateOverridesAndRaisesAlert(t *testing.T) {
	m, q := newTestMonitor(nil)

	v, err := m.Update("205", models.VitalSignsUpdate{OxygenSaturation: ptr(80)})
	require.NoError(t, err)
	assert.Equal(t, 80.0, v.OxygenSaturation)
	assert.Equal(t, models.StatusCritical, v.Status)

	cached, err := m.Get("205")
	require.NoError(t, err)
	assert.Equal(t, v, cached)

	alerts := q.alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTypeAlert, alerts[0].Type)
	assert.Equal(t, models.StatusNormal, alerts[0].PreviousStatus)
	assert.Equal(t, models.StatusCritical, alerts[0].Status)
	assert.Contains(t, alerts[0].Reasons, "oxygenSaturation 80.0 < 90")
}

func TestMonitor_UpdateIgnoresPreviousOverrides(t *testing.T) {
	m, _ := newTestMonitor(nil)

	_, err := m.Update("3", models.VitalSignsUpdate{HeartRate: ptr(180)})
	require.NoError(t, err)

	v, err := m.Update("3", models.VitalSignsUpdate{Temperature: ptr(98)})
	require.NoError(t, err)
	assert.NotEqual(t, 180.0, v.HeartRate, "fields not supplied are regenerated")
	assert.Equal(t, 98.0, v.Temperature)
}

func TestMonitor_ResolvedAlertOnReturnToNormal(t *testing.T) {
	m, q := newTestMonitor(nil)

	_, err := m.Update("9", models.VitalSignsUpdate{HeartRate: ptr(130)})
	require.NoError(t, err)
	require.Equal(t, 0, m.RefreshAll())

	alerts := q.alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, models.AlertTypeResolved, alerts[1].Type)
	assert.Equal(t, models.StatusCritical, alerts[1].PreviousStatus)
	assert.Equal(t, models.StatusNormal, alerts[1].Status)
}

func TestMonitor_ActivateFailureLeavesNoPattern(t *testing.T) {
	gen := failingGenerator{next: vitals.NewGenerator(), bad: map[string]bool{"x": true}}
	m, _ := newTestMonitor(gen)

	_, _, err := m.Activate("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sensor offline")
	assert.Equal(t, 0, m.Health().TotalPatterns)
	assert.Equal(t, 0, m.Health().ActiveRooms)
}

func TestMonitor_Health(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := New(normalPatterns(), store.NewLiveCache(), vitals.NewGenerator(), nil, logging.NewNop(),
		WithClock(func() time.Time { return now }))
	_, err := m.Get("1")
	require.NoError(t, err)

	h := m.Health()
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, ServiceName, h.Service)
	assert.Equal(t, "2024-05-01T12:00:00.000000Z", h.Timestamp)
	assert.Equal(t, 1, h.ActiveRooms)
	assert.Equal(t, 1, h.TotalPatterns)
}
