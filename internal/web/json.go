package web

import (
	"encoding/json"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Tv            string     `json:"tv"`
	Secondary     string     `json:"secondary"`
	Passthru      bool       `json:"passthru"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	TvChanges     int `json:"tv_changes"`
	PowerButtons  int `json:"power_buttons"`
	Keys          int `json:"keys"`
	ConsumerCodes int `json:"consumer_codes"`
	Unmapped      int `json:"unmapped"`
	IdleSleeps    int `json:"idle_sleeps"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Dialect     string `json:"dialect"`
	SerialPort  string `json:"serial_port"`
	TvPollMs    int64  `json:"tv_poll_ms"`
	GraceMs     int64  `json:"grace_ms"`
	IdleMs      int64  `json:"idle_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	AntiHijack  bool   `json:"anti_hijack"`
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			Tv:            snap.Tv.Kind.String(),
			Secondary:     snap.Secondary.String(),
			Passthru:      snap.Passthru,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Counts: CountsJSON{
				TvChanges:     snap.Counts.TvChanges,
				PowerButtons:  snap.Counts.PowerButtons,
				Keys:          snap.Counts.Keys,
				ConsumerCodes: snap.Counts.ConsumerCodes,
				Unmapped:      snap.Counts.Unmapped,
				IdleSleeps:    snap.Counts.IdleSleeps,
			},
			Config: ConfigJSON{
				Dialect:     snap.Config.Dialect,
				SerialPort:  snap.Config.SerialPort,
				TvPollMs:    snap.Config.TvPollMs,
				GraceMs:     snap.Config.GraceMs,
				IdleMs:      snap.Config.IdleMs,
				HeartbeatMs: snap.Config.HeartbeatMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
				AntiHijack:  snap.Config.AntiHijack,
			},
		},
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
