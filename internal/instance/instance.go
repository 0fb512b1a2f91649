package instance

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/mumumio1/mockapi/internal/model"
)

const (
	// ConcurrencyModel describes how requests are scheduled
	ConcurrencyModel = "goroutine per request"
	// rssUnavailable marks memory figures that are not measured
	rssUnavailable = "N/A"
)

// Instance is the identity of this server process. It is created once at
// startup and only read afterwards.
type Instance struct {
	Name    string
	Port    string
	Started time.Time

	now func() time.Time
}

// New creates an instance started now
func New(name string, port uint16) *Instance {
	return &Instance{
		Name:    name,
		Port:    strconv.FormatUint(uint64(port), 10),
		Started: time.Now(),
		now:     time.Now,
	}
}

// Uptime returns the time elapsed since startup. Both readings carry the
// monotonic clock, so successive calls never go backwards.
func (i *Instance) Uptime() time.Duration {
	return i.now().Sub(i.Started)
}

// Info returns server info stamped with the current time
func (i *Instance) Info() model.ServerInfo {
	now := i.now()
	return model.ServerInfo{
		Language:  model.Language,
		Server:    i.Name,
		Port:      i.Port,
		Timestamp: FormatTimestamp(now),
		Uptime:    FormatUptime(now.Sub(i.Started)),
	}
}

// Health returns the body of a health check
func (i *Instance) Health() model.HealthResponse {
	info := i.Info()
	return model.HealthResponse{
		Status:    "healthy",
		Language:  info.Language,
		Server:    info.Server,
		Port:      info.Port,
		Timestamp: info.Timestamp,
		Uptime:    info.Uptime,
		Memory: model.MemoryInfo{
			RSS:     rssUnavailable,
			Threads: runtime.NumCPU(),
		},
		Threads: ConcurrencyModel,
	}
}

// Timestamp returns the current time formatted for responses
func (i *Instance) Timestamp() string {
	return FormatTimestamp(i.now())
}

// FormatTimestamp renders t as RFC3339 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatUptime renders d as seconds with millisecond precision, e.g. "12.345s"
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
