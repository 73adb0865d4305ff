// Package status provides a thread-safe status tracker for the mediator
// daemon, read by the HTTP status page. It observes only what the mediator
// loop pushes out; nothing here reads the live mediator state.
package status

import (
	"sync"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

// Config contains daemon configuration echoed on the status page.
type Config struct {
	Broker      string
	Dialect     string
	SerialPort  string
	TvPollMs    int64
	GraceMs     int64
	IdleMs      int64
	HeartbeatMs int64
	HTTPAddr    string
	AntiHijack  bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Tv            mediator.TvState
	Secondary     mediator.SecondaryState
	Passthru      bool
	Counts        mediator.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the mediator snapshot. Called by the mediator loop after
// every event.
func (t *Tracker) Update(snap mediator.Snapshot) {
	t.mu.Lock()
	t.snap.Tv = snap.Tv
	t.snap.Secondary = snap.Secondary
	t.snap.Passthru = snap.Passthru
	t.snap.Counts = snap.Counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
