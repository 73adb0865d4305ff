package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

// Bridge consumes the mediator's outbound bus queue and turns each command
// into a publication. Broker reconnects are invisible here; the Publisher
// buffers while disconnected.
type Bridge struct {
	pub    Publisher
	cmds   <-chan mediator.Command
	logger *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewBridge creates a bridge over an open publisher.
func NewBridge(pub Publisher, cmds <-chan mediator.Command, logger *slog.Logger) *Bridge {
	return &Bridge{
		pub:    pub,
		cmds:   cmds,
		logger: logger,
		now:    time.Now,
	}
}

// Run publishes commands until the context is cancelled. Publish failures
// are logged, never fatal.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-b.cmds:
			if err := b.publish(cmd); err != nil {
				b.logger.Error("bus publish failed", "error", err)
			}
		}
	}
}

func (b *Bridge) publish(cmd mediator.Command) error {
	switch cmd.Kind {
	case mediator.CmdBusNotify:
		topic, ok := notifyTopic(cmd.Notify)
		if !ok {
			return fmt.Errorf("notification with unknown kind %d", int(cmd.Notify))
		}
		payload, err := FormatState(cmd.On, b.now())
		if err != nil {
			return fmt.Errorf("format %s payload: %w", cmd.Notify, err)
		}
		b.logger.Debug("publishing notification", "topic", topic, "on", cmd.On)
		return b.pub.Publish(topic, payload)

	case mediator.CmdBusScript:
		payload, err := FormatScript(cmd.Script)
		if err != nil {
			return fmt.Errorf("format script payload: %w", err)
		}
		b.logger.Info("triggering script", "script", cmd.Script)
		return b.pub.Publish(topicRunScript, payload)
	}
	return fmt.Errorf("bus command with unknown kind %d", int(cmd.Kind))
}

func notifyTopic(n mediator.Notification) (string, bool) {
	switch n {
	case mediator.NotifyTvPower:
		return TopicTvPower, true
	case mediator.NotifySecondaryPower:
		return TopicSecondary, true
	case mediator.NotifyAmbientLight:
		return TopicAmbientLight, true
	}
	return "", false
}
