// Command air-remote-mediator bridges the air-remote button panel, the
// television's serial control link, and the Home Assistant MQTT bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/bus"
	"github.com/pipsimon/air-remote-mediator/internal/config"
	"github.com/pipsimon/air-remote-mediator/internal/logging"
	"github.com/pipsimon/air-remote-mediator/internal/mediator"
	"github.com/pipsimon/air-remote-mediator/internal/panel"
	"github.com/pipsimon/air-remote-mediator/internal/status"
	"github.com/pipsimon/air-remote-mediator/internal/supervisor"
	"github.com/pipsimon/air-remote-mediator/internal/tv"
	"github.com/pipsimon/air-remote-mediator/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	serialPort := flag.String("serial", "", "TV serial port (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config; \"off\" disables)")
	printState := flag.Bool("print-state", false, "Query the TV state once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	cfg = applyOverrides(cfg, *broker, *serialPort, *httpAddr)

	logger := logging.New(cfg.Logging)

	if *printState {
		if err := printTvState(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// applyOverrides folds the command-line flags into the loaded config.
// Empty flags leave the config untouched; --http=off disables the status
// server entirely.
func applyOverrides(cfg config.Config, broker, serialPort, httpAddr string) config.Config {
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
	if serialPort != "" {
		cfg.TV.Port = serialPort
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTPAddr = ""
	default:
		cfg.HTTPAddr = httpAddr
	}
	return cfg
}

// printTvState queries the television once and prints the result.
func printTvState(cfg config.Config) error {
	link, err := tv.Open(cfg.TV, logging.New(cfg.Logging))
	if err != nil {
		return fmt.Errorf("open tv link: %w", err)
	}
	defer link.Close()

	state, err := link.GetState()
	if err != nil {
		return fmt.Errorf("query tv state: %w", err)
	}
	fmt.Printf("TV: %s\n", state)
	return nil
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()

	events := make(chan mediator.Event, mediator.EventQueueSize)
	out := mediator.NewOutbound()

	// emit applies backpressure: producers wait for queue space because a
	// lost event would corrupt derived state.
	emit := func(ev mediator.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	tracker := status.NewTracker(startTime, status.Config{
		Broker:      cfg.MQTT.Broker,
		Dialect:     cfg.TV.Dialect,
		SerialPort:  cfg.TV.Port,
		TvPollMs:    cfg.TV.PollInterval.Milliseconds(),
		GraceMs:     cfg.Mediator.GracePeriod.Milliseconds(),
		IdleMs:      cfg.Mediator.IdleTimeout.Milliseconds(),
		HeartbeatMs: cfg.Mediator.Heartbeat.Milliseconds(),
		HTTPAddr:    cfg.HTTPAddr,
		AntiHijack:  cfg.Mediator.AntiHijack,
	})

	machine := mediator.NewMachine(mediator.Rules{
		GracePeriod:      cfg.Mediator.GracePeriod,
		IdleTimeout:      cfg.Mediator.IdleTimeout,
		AntiHijack:       cfg.Mediator.AntiHijack,
		AntiHijackWindow: cfg.Mediator.AntiHijackWindow,
	}, startTime, logging.Component(logger, "mediator"))

	loop := mediator.NewLoop(machine, events, out, logging.Component(logger, "mediator"))
	loop.Observe = tracker.Update

	client, err := bus.NewClient(cfg.MQTT, emit, logging.Component(logger, "mqtt"))
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()
	bridge := bus.NewBridge(client, out.Bus, logging.Component(logger, "mqtt"))

	tvLogger := logging.Component(logger, "tv")
	poller := tv.NewPoller(
		func() (tv.Link, error) { return tv.Open(cfg.TV, tvLogger) },
		func(s tv.State) { emit(mediator.TvObserved(s)) },
		out.Tv,
		cfg.TV.PrimaryInput,
		cfg.TV.PollInterval,
		tvLogger,
	)

	decoder := panel.NewDecoder(
		func() (panel.Conn, error) { return panel.NewRealConn(cfg.Panel) },
		emit,
		out.Panel,
		cfg.Panel.PollInterval,
		logging.Component(logger, "panel"),
	)

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("http status server listening", "addr", cfg.HTTPAddr)
	}

	// Keep the tracker's MQTT indicator fresh without polling from the
	// mediator loop.
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tracker.SetMQTTConnected(client.IsConnected())
			}
		}
	}()

	logger.Info("started",
		"broker", cfg.MQTT.Broker,
		"serial", cfg.TV.Port,
		"dialect", cfg.TV.Dialect,
		"poll", cfg.TV.PollInterval,
	)

	return supervisor.Run(ctx, logger,
		supervisor.Collaborator{Name: "mediator", Run: loop.Run},
		supervisor.Collaborator{Name: "tv-poller", Run: poller.Run},
		supervisor.Collaborator{Name: "panel", Run: decoder.Run},
		supervisor.Collaborator{Name: "mqtt-bridge", Run: bridge.Run},
		supervisor.Collaborator{Name: "heartbeat", Run: mediator.HeartbeatProducer(cfg.Mediator.Heartbeat, emit)},
	)
}
