package mediator

import (
	"context"
	"log/slog"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/tv"
)

// Queue capacities. The inbound event queue applies backpressure; the
// outbound queues drop the oldest pending command instead of ever blocking
// the loop.
const (
	EventQueueSize   = 100
	CommandQueueSize = 10
)

// Outbound holds the per-collaborator command queues the loop dispatches
// into.
type Outbound struct {
	Tv    chan tv.Command
	Panel chan PanelOp
	Bus   chan Command
}

// NewOutbound creates the three bounded command queues.
func NewOutbound() Outbound {
	return Outbound{
		Tv:    make(chan tv.Command, CommandQueueSize),
		Panel: make(chan PanelOp, CommandQueueSize),
		Bus:   make(chan Command, CommandQueueSize),
	}
}

// Loop feeds events into the machine and fans commands out to the
// collaborator queues. It is the only goroutine that touches the machine.
type Loop struct {
	machine *Machine
	events  <-chan Event
	out     Outbound
	logger  *slog.Logger

	// Observe, if set, receives a state snapshot after every event.
	Observe func(Snapshot)

	// now is replaced in tests.
	now func() time.Time
}

// NewLoop creates the mediator loop.
func NewLoop(machine *Machine, events <-chan Event, out Outbound, logger *slog.Logger) *Loop {
	return &Loop{
		machine: machine,
		events:  events,
		out:     out,
		logger:  logger,
		now:     time.Now,
	}
}

// Run processes events until the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.Step(ev)
		}
	}
}

// Step handles one event synchronously. Exported for the scenario tests,
// which drive the loop without goroutines.
func (l *Loop) Step(ev Event) {
	for _, cmd := range l.machine.Handle(ev, l.now()) {
		l.dispatch(cmd)
	}
	if l.Observe != nil {
		l.Observe(l.machine.Snapshot())
	}
}

func (l *Loop) dispatch(cmd Command) {
	switch cmd.Kind {
	case CmdTv:
		offer(l.out.Tv, cmd.Tv)
	case CmdPanel:
		offer(l.out.Panel, cmd.Panel)
	case CmdBusNotify, CmdBusScript:
		offer(l.out.Bus, cmd)
	default:
		l.logger.Warn("command with unknown kind dropped", "kind", int(cmd.Kind))
	}
}

// offer enqueues without ever blocking: when the queue is full the oldest
// pending entry is dropped. Outbound commands are idempotent or superseded
// by the next observation, so losing a stale one is safe.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
