package store

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"vitals-service/internal/models"
)

// Parameter bounds of a freshly drawn pattern.
const (
	minNoiseFactor = 0.05
	maxNoiseFactor = 0.15
	maxTrendFactor = 0.1
)

// DrawFunc returns a sample from Uniform(min, max).
type DrawFunc func(min, max float64) float64

func uniformDraw(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max}.Rand()
}

// PatternStore maps room numbers to their waveform parameters.
type PatternStore struct {
	mu       sync.RWMutex
	patterns map[string]models.RoomPattern
	draw     DrawFunc
	clock    func() time.Time
}

type PatternOption func(*PatternStore)

func WithDraw(fn DrawFunc) PatternOption {
	return func(s *PatternStore) { s.draw = fn }
}

func WithClock(fn func() time.Time) PatternOption {
	return func(s *PatternStore) { s.clock = fn }
}

func NewPatternStore(opts ...PatternOption) *PatternStore {
	s := &PatternStore{
		patterns: make(map[string]models.RoomPattern),
		draw:     uniformDraw,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the room's pattern, drawing a new one on first touch.
// The boolean reports whether the pattern was created by this call.
func (s *PatternStore) GetOrCreate(room string) (models.RoomPattern, bool) {
	s.mu.RLock()
	p, ok := s.patterns[room]
	s.mu.RUnlock()
	if ok {
		return p, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.patterns[room]; ok {
		return p, false
	}
	p = s.newPattern(room)
	s.patterns[room] = p
	return p, true
}

func (s *PatternStore) newPattern(room string) models.RoomPattern {
	idx := int(s.draw(0, float64(len(models.Conditions))))
	if idx >= len(models.Conditions) {
		idx = len(models.Conditions) - 1
	}
	return models.RoomPattern{
		RoomNumber:  room,
		Condition:   models.Conditions[idx],
		PhaseOffset: math.Mod(s.draw(0, 2*math.Pi), 2*math.Pi),
		NoiseFactor: s.draw(minNoiseFactor, maxNoiseFactor),
		TrendFactor: s.draw(-maxTrendFactor, maxTrendFactor),
		LastUpdate:  s.clock(),
	}
}

func (s *PatternStore) Get(room string) (models.RoomPattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[room]
	return p, ok
}

// Touch advances the room's LastUpdate. It returns false if the room has no pattern.
func (s *PatternStore) Touch(room string, t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patterns[room]
	if !ok {
		return false
	}
	p.LastUpdate = t
	s.patterns[room] = p
	return true
}

// Remove deletes the room's pattern; removing an absent room is a no-op.
func (s *PatternStore) Remove(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patterns, room)
}

// Conditions returns room -> condition for every known room.
func (s *PatternStore) Conditions() map[string]models.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Condition, len(s.patterns))
	for room, p := range s.patterns {
		out[room] = p.Condition
	}
	return out
}

func (s *PatternStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}
