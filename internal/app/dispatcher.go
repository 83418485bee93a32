package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/rs/zerolog/log"
)

var (
	ErrDispatcherStopped = errors.New("dispatcher stopped")
	ErrDispatcherRunning = errors.New("dispatcher already running")
)

const DefaultDispatchBuffer = 1024

// Dispatcher is the only writer to member connections.
// Envelopes are delivered one at a time in submission order.
//
// The queue is bounded: when it is full Send blocks the producer until the
// consumer catches up. The consumer never waits on a producer, only on
// socket writes, which the adapter bounds with a write deadline.
type Dispatcher struct {
	members *MemberRegistry
	queue   chan core.Envelope

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(members *MemberRegistry, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultDispatchBuffer
	}
	return &Dispatcher{
		members: members,
		queue:   make(chan core.Envelope, buffer),
		done:    make(chan struct{}),
	}
}

// Send enqueues env. It blocks while the queue is full and fails once the
// dispatcher has stopped.
func (d *Dispatcher) Send(env core.Envelope) error {
	select {
	case <-d.done:
		return ErrDispatcherStopped
	default:
	}
	select {
	case d.queue <- env:
		return nil
	case <-d.done:
		return ErrDispatcherStopped
	}
}

// Run consumes the queue until ctx is done. Pending envelopes are dropped on exit.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrDispatcherRunning
	}
	defer d.stop()

	log.Info().Str("module", "app.dispatcher").Int("buffer", cap(d.queue)).Msg("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.dispatcher").Int("dropped", len(d.queue)).Msg("dispatcher stopped")
			return nil
		case env := <-d.queue:
			d.deliver(env)
		}
	}
}

func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) deliver(env core.Envelope) {
	m, ok := d.members.Lookup(env.To)
	if !ok {
		log.Debug().Str("module", "app.dispatcher").Str("sid", string(env.To)).Msg("recipient offline, dropped")
		return
	}
	m.Send(env.Payload)
}

func (d *Dispatcher) stop() {
	d.stopOnce.Do(func() { close(d.done) })
}
