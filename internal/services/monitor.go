package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vitals-service/internal/logging"
	"vitals-service/internal/metrics"
	"vitals-service/internal/models"
	"vitals-service/internal/store"
	"vitals-service/internal/vitals"
)

const (
	ServiceName    = "AuraCare Vital Signs Service"
	ServiceVersion = "1.0.0"
)

// Generator produces a snapshot from a room pattern at a point in time.
type Generator interface {
	Generate(p models.RoomPattern, now time.Time) (models.VitalSigns, error)
}

// EventQueue accepts snapshot and alert events for delivery.
type EventQueue interface {
	Queue(event models.Event) bool
}

// Monitor owns the per-room simulator state: patterns, the live cache and
// the generator. Handlers and the refresher share one Monitor.
type Monitor struct {
	patterns *store.PatternStore
	cache    *store.LiveCache
	gen      Generator
	events   EventQueue
	logger   *logging.Logger
	metrics  *metrics.Metrics
	clock    func() time.Time

	// lifecycle serializes room creation, overrides and removal so a pattern
	// and its cache entry always appear and disappear together.
	lifecycle sync.Mutex
}

type Option func(*Monitor)

func WithClock(fn func() time.Time) Option {
	return func(m *Monitor) { m.clock = fn }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) { m.metrics = mt }
}

// New constructs a Monitor. events may be nil when nothing consumes events.
func New(patterns *store.PatternStore, cache *store.LiveCache, gen Generator, events EventQueue, logger *logging.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		patterns: patterns,
		cache:    cache,
		gen:      gen,
		events:   events,
		logger:   logger,
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached snapshot of a room, activating it on first access.
func (m *Monitor) Get(room string) (models.VitalSigns, error) {
	if v, ok := m.cache.Get(room); ok {
		return v, nil
	}
	v, _, err := m.Activate(room)
	return v, err
}

// Activate starts monitoring a room. If the room is already active the
// cached snapshot is returned untouched and alreadyActive is true.
func (m *Monitor) Activate(room string) (snapshot models.VitalSigns, alreadyActive bool, err error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if v, ok := m.cache.Get(room); ok {
		return v, true, nil
	}

	pattern, created := m.patterns.GetOrCreate(room)
	if created {
		m.logger.Infof("Room %s assigned condition %s", room, pattern.Condition)
	}
	v, err := m.generate(pattern)
	if err != nil {
		if created {
			m.patterns.Remove(room)
		}
		return models.VitalSigns{}, false, err
	}
	m.cache.Set(room, v)
	m.record(nil, v, pattern.Condition)
	m.logger.Infof("Room %s activated for monitoring", room)
	return v, false, nil
}

// Update regenerates a baseline for the room, overlays the caller's fields,
// recomputes the status and stores the result. Unknown rooms are activated.
func (m *Monitor) Update(room string, u models.VitalSignsUpdate) (models.VitalSigns, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	pattern, created := m.patterns.GetOrCreate(room)
	base, err := m.generate(pattern)
	if err != nil {
		if created {
			m.patterns.Remove(room)
		}
		return models.VitalSigns{}, err
	}

	v := vitals.Merge(base, u)
	v.Timestamp = m.clock().Format(vitals.TimestampLayout)

	prev, existed := m.cache.Set(room, v)
	if existed {
		m.record(&prev, v, pattern.Condition)
	} else {
		m.record(nil, v, pattern.Condition)
	}
	m.logger.Infof("Room %s vitals overridden, status %s", room, v.Status)
	return v, nil
}

// Deactivate stops monitoring a room and reports whether it was active.
// Deactivating an unknown room is a no-op.
func (m *Monitor) Deactivate(room string) bool {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	existed := m.cache.Delete(room)
	m.patterns.Remove(room)
	m.metrics.SetActiveRooms(m.cache.Len())
	if existed {
		m.logger.Infof("Room %s deactivated", room)
	}
	return existed
}

// All returns the latest snapshot of every active room.
func (m *Monitor) All() map[string]models.VitalSigns {
	return m.cache.All()
}

func (m *Monitor) Rooms() models.RoomsResponse {
	rooms := m.cache.Rooms()
	return models.RoomsResponse{
		ActiveRooms:  rooms,
		RoomPatterns: m.patterns.Conditions(),
		TotalRooms:   len(rooms),
	}
}

func (m *Monitor) Health() models.HealthResponse {
	return models.HealthResponse{
		Status:        "healthy",
		Timestamp:     m.clock().Format(vitals.TimestampLayout),
		Service:       ServiceName,
		ActiveRooms:   m.cache.Len(),
		TotalPatterns: m.patterns.Len(),
	}
}

// generate builds a snapshot from the pattern and advances its LastUpdate.
func (m *Monitor) generate(p models.RoomPattern) (models.VitalSigns, error) {
	now := m.clock()
	v, err := m.gen.Generate(p, now)
	if err != nil {
		return models.VitalSigns{}, fmt.Errorf("generate vitals for room %s: %w", p.RoomNumber, err)
	}
	m.patterns.Touch(p.RoomNumber, now)
	return v, nil
}

// record publishes a stored snapshot and raises an alert when the room's
// status tier changed. A room without a previous snapshot counts as normal.
func (m *Monitor) record(prev *models.VitalSigns, v models.VitalSigns, condition models.Condition) {
	m.metrics.SnapshotStored(v.Status)
	m.metrics.SetActiveRooms(m.cache.Len())

	snap := v
	m.queue(models.Event{Kind: models.EventSnapshot, Snapshot: &snap})

	prevStatus := models.StatusNormal
	if prev != nil {
		prevStatus = prev.Status
	}
	if prevStatus == v.Status {
		return
	}

	alert := newAlert(prevStatus, v, condition, m.clock())
	m.metrics.AlertRaised(alert)
	m.logger.Warnf("Room %s status %s -> %s %v", v.RoomNumber, prevStatus, v.Status, alert.Reasons)
	m.queue(models.Event{Kind: models.EventAlert, Alert: &alert})
}

func (m *Monitor) queue(e models.Event) {
	if m.events == nil {
		return
	}
	m.events.Queue(e)
}

func newAlert(prev models.Status, v models.VitalSigns, condition models.Condition, now time.Time) models.Alert {
	_, reasons := vitals.Evaluate(v)
	kind := models.AlertTypeAlert
	if v.Status == models.StatusNormal {
		kind = models.AlertTypeResolved
	}
	return models.Alert{
		ID:             uuid.New(),
		Type:           kind,
		RoomNumber:     v.RoomNumber,
		Condition:      condition,
		PreviousStatus: prev,
		Status:         v.Status,
		Reasons:        reasons,
		Vitals:         v,
		CreatedAt:      now,
	}
}
