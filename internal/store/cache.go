package store

import (
	"errors"
	"sort"
	"sync"

	"vitals-service/internal/models"
)

var ErrRoomNotFound = errors.New("room is not being monitored")

// LiveCache holds the most recent snapshot of every active room.
type LiveCache struct {
	mu      sync.RWMutex
	entries map[string]models.VitalSigns
}

func NewLiveCache() *LiveCache {
	return &LiveCache{entries: make(map[string]models.VitalSigns)}
}

func (c *LiveCache) Get(room string) (models.VitalSigns, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[room]
	return v, ok
}

// Set stores v and returns the snapshot it replaced, if any.
func (c *LiveCache) Set(room string, v models.VitalSigns) (models.VitalSigns, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.entries[room]
	c.entries[room] = v
	return prev, ok
}

// SetIfAbsent stores v only when the room has no entry. It returns the entry
// now held and whether v was stored.
func (c *LiveCache) SetIfAbsent(room string, v models.VitalSigns) (models.VitalSigns, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[room]; ok {
		return cur, false
	}
	c.entries[room] = v
	return v, true
}

// Replace overwrites an existing entry and returns the previous snapshot.
// Rooms without an entry are left alone and ErrRoomNotFound is returned.
func (c *LiveCache) Replace(room string, v models.VitalSigns) (models.VitalSigns, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.entries[room]
	if !ok {
		return models.VitalSigns{}, ErrRoomNotFound
	}
	c.entries[room] = v
	return prev, nil
}

// Delete removes the room's entry and reports whether it existed.
func (c *LiveCache) Delete(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[room]
	delete(c.entries, room)
	return ok
}

// All returns a copy of the cache.
func (c *LiveCache) All() map[string]models.VitalSigns {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.VitalSigns, len(c.entries))
	for room, v := range c.entries {
		out[room] = v
	}
	return out
}

// Rooms returns the active room numbers in sorted order.
func (c *LiveCache) Rooms() []string {
	c.mu.RLock()
	rooms := make([]string, 0, len(c.entries))
	for room := range c.entries {
		rooms = append(rooms, room)
	}
	c.mu.RUnlock()
	sort.Strings(rooms)
	return rooms
}

func (c *LiveCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
