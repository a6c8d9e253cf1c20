package replay

import (
	"log"
	"time"
)

// reportWindow is the rolling measurement period.
const reportWindow = time.Second

// Monitor accumulates replay-loop throughput counters and reports
// iterations/sec and samples/sec once per window. It is touched only
// by the replay thread.
type Monitor struct {
	now  func() time.Time
	logf func(format string, v ...any)

	windowStart time.Time
	iterations  int
	samples     int
}

// NewMonitor creates a monitor reporting through the standard logger.
func NewMonitor() *Monitor {
	return &Monitor{
		now:  time.Now,
		logf: log.Printf,
	}
}

// Tick records one completed replay iteration and the samples it
// processed, emitting a report when the window has elapsed.
func (m *Monitor) Tick(samples int) {
	t := m.now()
	if m.windowStart.IsZero() {
		m.windowStart = t
	}

	m.iterations++
	m.samples += samples

	elapsed := t.Sub(m.windowStart)
	if elapsed < reportWindow {
		return
	}

	secs := elapsed.Seconds()
	m.logf("Performance: %.1f iterations/sec, %.1f samples/sec",
		float64(m.iterations)/secs, float64(m.samples)/secs)

	m.iterations = 0
	m.samples = 0
	m.windowStart = t
}

// Reset discards the current window so a stale start time cannot skew
// the first report after profiling is re-enabled.
func (m *Monitor) Reset() {
	m.windowStart = time.Time{}
	m.iterations = 0
	m.samples = 0
}
