package audit

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type writer interface {
	Write(ctx context.Context, e Entry) error
}

// Dispatcher records session events (login/logout) off the request path.
type Dispatcher struct {
	w        writer
	log      *zap.Logger
	failures prometheus.Counter
	queue    chan Entry
	wg       sync.WaitGroup
	once     sync.Once
}

// NewDispatcher starts the worker. failures may be nil.
func NewDispatcher(w writer, log *zap.Logger, failures prometheus.Counter) *Dispatcher {
	d := &Dispatcher{
		w:        w,
		log:      log,
		failures: failures,
		queue:    make(chan Entry, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.w.Write(context.Background(), ev); err != nil {
			if d.failures != nil {
				d.failures.Inc()
			}
			d.log.Error("audit error", zap.String("action", ev.Action()), zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Entry) {
	select {
	case d.queue <- ev:
	default:
		// never block a request on the audit trail
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action()))
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}
