package analytics

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// Dispatcher hands events to a sink on its own goroutine. Track never
// blocks: when the buffer is full the event is dropped and counted.
type Dispatcher struct {
	mu          sync.Mutex
	sink        Sink
	logger      *log.Logger
	out         chan Event
	stopCh      chan struct{}
	doneCh      chan struct{}
	started     bool
	stopped     bool
	dropped     uint64
	sendTimeout time.Duration
	now         func() time.Time
}

func NewDispatcher(sink Sink, logger *log.Logger, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		sink:        sink,
		logger:      logger,
		out:         make(chan Event, bufferSize),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		sendTimeout: 5 * time.Second,
		now:         time.Now,
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.loop()
}

// Stop delivers whatever is already queued, then closes the sink if it
// implements io.Closer.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	started := d.started
	close(d.stopCh)
	d.mu.Unlock()

	if started {
		<-d.doneCh
	}
	if closer, ok := d.sink.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			d.logger.Warn("analytics sink close failed", "err", err)
		}
	}
}

func (d *Dispatcher) Track(ev Event) {
	if ev.At.IsZero() {
		ev.At = d.now().UTC()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		atomic.AddUint64(&d.dropped, 1)
		return
	}
	select {
	case d.out <- ev:
	default:
		atomic.AddUint64(&d.dropped, 1)
	}
}

func (d *Dispatcher) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

func (d *Dispatcher) loop() {
	defer close(d.doneCh)
	for {
		select {
		case ev := <-d.out:
			d.deliver(ev)
		case <-d.stopCh:
			for {
				select {
				case ev := <-d.out:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	if d.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()
	if err := d.sink.Send(ctx, ev); err != nil {
		d.logger.Debug("analytics event not delivered", "event", ev.Name, "err", err)
	}
}
