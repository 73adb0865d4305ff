package mediator

import (
	"context"
	"time"
)

// HeartbeatProducer returns a collaborator that emits a Heartbeat event at
// the fixed interval. Heartbeats carry no state; they exist so the
// time-based guards run even when the devices are quiet.
func HeartbeatProducer(interval time.Duration, emit func(Event)) func(context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				emit(Heartbeat())
			}
		}
	}
}
