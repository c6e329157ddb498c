package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
)

const (
	ActionAppointmentCreated     = "appointment_created"
	ActionAppointmentUpdated     = "appointment_updated"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionRescheduleConflict     = "appointment_conflict"
	ActionAppointmentStatus      = "appointment_status_changed"
	ActionAppointmentCancelled   = "appointment_cancelled"
	ActionAppointmentCompleted   = "appointment_completed"
	ActionAppointmentDeleted     = "appointment_deleted"

	EntityAppointment = "appointment"
)

const defaultQueueSize = 100

type Event struct {
	ClinicID uuid.UUID
	StaffID  *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Recorder is what use cases depend on.
type Recorder interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	wg    sync.WaitGroup

	// mu guards closed and the send on queue against Close.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink) *Dispatcher {
	return NewDispatcherSize(sink, defaultQueueSize)
}

func NewDispatcherSize(sink Sink, size int) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}

	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			logger.Error("audit write failed",
				slog.String("action", ev.Action),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Dispatch never blocks; a full queue or a closed dispatcher drops the
// event.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		logger.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Dispatch(Event) {}

var _ Recorder = (*Dispatcher)(nil)
var _ Recorder = Nop{}
