package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/metrics"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the username, so one account's trail is written in order.
// Recording is best-effort: a full worker channel drops the event rather
// than stalling the authentication path.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	service ports.AuditService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or when Stop closes their channels.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and blocks until every queued event has
// been handed to the audit service. Enqueue calls after Stop are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its username without
// blocking the caller.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn().
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("dispatcher stopped, event dropped")
		return
	}
	idx := d.shardIndex(event.Username)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("username", event.Username).
			Str("action", event.Action).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("username", event.Username).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
