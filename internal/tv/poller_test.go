package tv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPollerForwardsReadings(t *testing.T) {
	fake := NewFakeLink([]State{StateOff, StateOnPrimary, StateOnOther})
	observed := make(chan State, 16)

	p := NewPoller(
		func() (Link, error) { return fake, nil },
		func(s State) {
			select {
			case observed <- s:
			default:
			}
		},
		make(chan Command),
		1,
		time.Millisecond,
		discardLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	want := []State{StateOff, StateOnPrimary, StateOnOther}
	for i, w := range want {
		select {
		case got := <-observed:
			if got != w {
				t.Errorf("reading %d = %v, want %v", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for reading %d", i)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestPollerDrainsCommands(t *testing.T) {
	fake := NewFakeLink([]State{StateOff})
	cmds := make(chan Command, 8)
	cmds <- CmdPowerOn
	cmds <- CmdSelectPrimary
	cmds <- CmdVolumeDown

	applied := make(chan struct{})
	p := NewPoller(
		func() (Link, error) { return fake, nil },
		func(State) {
			if len(cmds) == 0 {
				select {
				case applied <- struct{}{}:
				default:
				}
			}
		},
		cmds,
		1,
		time.Millisecond,
		discardLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("commands were not drained")
	}
	cancel()
	<-done

	if len(fake.Commands) < 3 {
		t.Fatalf("applied %d commands, want 3: %v", len(fake.Commands), fake.Commands)
	}
	if fake.Commands[0] != "power_on" {
		t.Errorf("command 0 = %q, want power_on", fake.Commands[0])
	}
	if fake.Commands[1] != "select_input 1" {
		t.Errorf("command 1 = %q, want select_input 1", fake.Commands[1])
	}
	if fake.Commands[2] != "volume_down" {
		t.Errorf("command 2 = %q, want volume_down", fake.Commands[2])
	}
}

func TestPollerReconnectsAfterError(t *testing.T) {
	bad := NewFakeLink([]State{StateOff})
	bad.StateErr = errors.New("frame garbled")
	good := NewFakeLink([]State{StateOnPrimary})

	links := make(chan *FakeLink, 2)
	links <- bad
	links <- good

	observed := make(chan State, 1)
	p := NewPoller(
		func() (Link, error) { return <-links, nil },
		func(s State) {
			select {
			case observed <- s:
			default:
			}
		},
		make(chan Command),
		1,
		time.Millisecond,
		discardLogger(),
	)
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case got := <-observed:
		if got != StateOnPrimary {
			t.Errorf("reading = %v, want ON_PRIMARY", got)
		}
	case <-time.After(time.Second):
		t.Fatal("poller never recovered")
	}
	cancel()
	<-done

	if !bad.Closed {
		t.Error("failed link was not closed")
	}
}

func TestPollerRetriesDial(t *testing.T) {
	attempts := make(chan int, 8)
	n := 0
	fake := NewFakeLink([]State{StateOff})

	p := NewPoller(
		func() (Link, error) {
			n++
			attempts <- n
			if n < 3 {
				return nil, errors.New("port busy")
			}
			return fake, nil
		},
		func(State) {},
		make(chan Command),
		1,
		time.Millisecond,
		discardLogger(),
	)
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	deadline := time.After(time.Second)
	for {
		select {
		case a := <-attempts:
			if a == 3 {
				cancel()
				<-done
				return
			}
		case <-deadline:
			t.Fatal("dial was not retried")
		}
	}
}

func TestCommandString(t *testing.T) {
	if CmdPowerOn.String() != "power_on" {
		t.Errorf("CmdPowerOn = %q", CmdPowerOn.String())
	}
	if Command(99).String() != "invalid" {
		t.Errorf("Command(99) = %q", Command(99).String())
	}
}
