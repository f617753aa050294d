package notification

import (
	"context"
	"sync"
	"time"

	"vitals-service/internal/logging"
	"vitals-service/internal/metrics"
	"vitals-service/internal/models"
)

const deliverTimeout = 5 * time.Second

// Sink delivers events to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event models.Event) error
}

// Dispatcher fans queued events out to every sink from a pool of workers.
type Dispatcher struct {
	logger  *logging.Logger
	metrics *metrics.Metrics
	sinks   []Sink
	events  chan models.Event
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
}

// New constructs a Dispatcher. Workers are not running until Start.
func New(logger *logging.Logger, m *metrics.Metrics, queueSize, workers int, sinks ...Sink) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		logger:  logger,
		metrics: m,
		sinks:   sinks,
		events:  make(chan models.Event, queueSize),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Sinks returns the names of the configured sinks.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Start launches the worker pool.
func (d *Dispatcher) Start(wg *sync.WaitGroup) {
	d.wg = wg
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop signals every worker to exit.
func (d *Dispatcher) Stop() {
	d.cancel()
}

// Queue enqueues an event without blocking. A full queue drops the event.
func (d *Dispatcher) Queue(event models.Event) bool {
	if len(d.sinks) == 0 {
		return true
	}
	select {
	case d.events <- event:
		return true
	default:
		d.metrics.EventDropped()
		d.logger.Warnf("Queue full, dropping %s event for room %s", event.Kind, event.RoomKey())
		return false
	}
}

// worker processes events until the context is cancelled.
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debugf("Dispatch worker %d stopped", id)
			return
		case event := <-d.events:
			d.deliver(event)
		}
	}
}

// deliver hands the event to every sink; one sink failing never stops the others.
func (d *Dispatcher) deliver(event models.Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(d.ctx, deliverTimeout)
		err := sink.Deliver(ctx, event)
		cancel()
		if err != nil {
			d.metrics.SinkFailed(sink.Name())
			d.logger.Errorf("Dispatch error via %s for room %s: %v", sink.Name(), event.RoomKey(), err)
		}
	}
}
