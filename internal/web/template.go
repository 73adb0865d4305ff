package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Air Remote Mediator</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Air Remote Mediator</h1>
<table>
<tr><th>TV</th><td>{{.Tv.Kind}}</td></tr>
<tr><th>Secondary device</th><td>{{.Secondary}}</td></tr>
<tr><th>Passthrough</th><td>{{onOff .Passthru}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}} ({{.Config.Broker}})</td></tr>
</table>
<h1>Event counts</h1>
<table>
<tr><th>TV state changes</th><td>{{.Counts.TvChanges}}</td></tr>
<tr><th>Power buttons</th><td>{{.Counts.PowerButtons}}</td></tr>
<tr><th>Keys</th><td>{{.Counts.Keys}}</td></tr>
<tr><th>Consumer codes</th><td>{{.Counts.ConsumerCodes}}</td></tr>
<tr><th>Unmapped inputs</th><td>{{.Counts.Unmapped}}</td></tr>
<tr><th>Idle sleeps</th><td>{{.Counts.IdleSleeps}}</td></tr>
</table>
<h1>Config</h1>
<table>
<tr><th>Dialect</th><td>{{.Config.Dialect}}</td></tr>
<tr><th>Serial port</th><td>{{.Config.SerialPort}}</td></tr>
<tr><th>TV poll</th><td>{{.Config.TvPollMs}}ms</td></tr>
<tr><th>Grace period</th><td>{{.Config.GraceMs}}ms</td></tr>
<tr><th>Idle timeout</th><td>{{.Config.IdleMs}}ms</td></tr>
<tr><th>Anti-hijack</th><td>{{onOff .Config.AntiHijack}}</td></tr>
</table>
<p><a href="/status.json">status.json</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	indexTmpl.Execute(w, snap)
}
