package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vitals-service/internal/store"
)

// Start runs the background refresher until ctx is cancelled. Every interval
// each active room gets a fresh snapshot; a pass with any failed room waits
// backoff before the next one.
func (m *Monitor) Start(ctx context.Context, wg *sync.WaitGroup, interval, backoff time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.logger.Infof("Refresher started: interval=%s backoff=%s", interval, backoff)

		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				m.logger.Infof("Refresher stopped")
				return
			case <-timer.C:
			}

			wait := interval
			if failed := m.RefreshAll(); failed > 0 {
				m.logger.Warnf("Refresh pass had %d failed rooms, backing off %s", failed, backoff)
				wait = backoff
			}
			timer.Reset(wait)
		}
	}()
}

// RefreshAll regenerates every active room once and returns how many failed.
// Failures are isolated per room.
func (m *Monitor) RefreshAll() int {
	start := time.Now()
	failed := 0
	for _, room := range m.cache.Rooms() {
		if err := m.refreshRoom(room); err != nil {
			failed++
			m.logger.Errorf("Error updating vital signs for room %s: %v", room, err)
		}
	}
	m.metrics.ObserveRefresh(time.Since(start), failed)
	return failed
}

func (m *Monitor) refreshRoom(room string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during refresh: %v", r)
		}
	}()

	pattern, ok := m.patterns.Get(room)
	if !ok {
		// Deactivated since the pass started.
		return nil
	}
	v, err := m.generate(pattern)
	if err != nil {
		return err
	}
	prev, err := m.cache.Replace(room, v)
	if errors.Is(err, store.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	m.record(&prev, v, pattern.Condition)
	return nil
}
