package input

import "sync/atomic"

// Flags is the shared control state between the capture callback and
// the replay thread. Each field has at most one writer at a time and
// any number of readers; nothing ever updates one flag based on
// another, so plain atomic loads and stores are all the pipeline needs.
type Flags struct {
	// Running governs process liveness. Cleared by the exit key, the
	// tray quit action, or a signal.
	Running atomic.Bool

	// Replaying is true only while the replay thread is synthesizing
	// input. The capture callback passes events through unmodified
	// while it is set, which is what breaks the feedback loop.
	Replaying atomic.Bool

	// CaptureSuppressed is the user-toggled pause: capture passes
	// events through without queueing them.
	CaptureSuppressed atomic.Bool

	// ProfilingEnabled turns the periodic performance report on.
	ProfilingEnabled atomic.Bool
}

// NewFlags returns flags for a live, capturing pipeline.
func NewFlags() *Flags {
	f := &Flags{}
	f.Running.Store(true)
	return f
}
