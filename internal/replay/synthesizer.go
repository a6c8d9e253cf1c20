// Package replay drains the capture rings and re-injects the events as
// synthetic input.
package replay

import (
	"log"
	"runtime"
	"time"

	"hidloop/internal/input"
	"hidloop/internal/osutils"
	"hidloop/internal/queue"
)

const (
	// batchCap bounds the request batch; flushes happen earlier, at
	// the high-water mark, so one drained sample (at most 5 requests)
	// can never overrun the array.
	batchCap  = 16
	highWater = input.InjectBatchMax

	// DefaultIdleBackoff is slept when an iteration drained nothing.
	DefaultIdleBackoff = time.Millisecond
)

// Synthesizer is the consumer side of the pipeline: a dedicated loop
// that drains both rings, folds samples into synthetic-input requests,
// and flushes them in bounded batches.
type Synthesizer struct {
	flags    *input.Flags
	mouse    *queue.Ring[input.MouseReport]
	keyboard *queue.Ring[input.KeyboardReport]
	injector input.Injector
	monitor  *Monitor
	idle     time.Duration

	batch [batchCap]input.Request
	n     int

	// lastButtons is the button mask as last synthesized, diffed
	// against each incoming report to emit one request per flipped bit.
	lastButtons uint8
}

// New wires a synthesizer to the shared flags, the transport rings,
// and an injector.
func New(flags *input.Flags, mouse *queue.Ring[input.MouseReport], keyboard *queue.Ring[input.KeyboardReport], injector input.Injector) *Synthesizer {
	return &Synthesizer{
		flags:    flags,
		mouse:    mouse,
		keyboard: keyboard,
		injector: injector,
		monitor:  NewMonitor(),
		idle:     DefaultIdleBackoff,
	}
}

// SetIdleBackoff overrides the idle sleep between empty iterations.
func (s *Synthesizer) SetIdleBackoff(d time.Duration) {
	if d > 0 {
		s.idle = d
	}
}

// Run executes the replay loop until Running is cleared. Samples still
// queued at that point are discarded. The loop runs on a locked OS
// thread at elevated priority to keep injection latency low.
func (s *Synthesizer) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := osutils.PromoteThread(); err != nil {
		log.Printf("Replay thread priority not elevated: %v", err)
	}

	for s.flags.Running.Load() {
		if !s.iterate() {
			time.Sleep(s.idle)
		}
	}
	log.Println("Replay loop stopped")
}

// iterate performs one drain-and-flush pass and reports whether any
// sample was processed. The Replaying flag brackets the whole pass so
// the capture callback ignores our own injected events.
func (s *Synthesizer) iterate() bool {
	s.flags.Replaying.Store(true)

	samples := 0

	for {
		report, ok := s.mouse.Consume()
		if !ok {
			break
		}
		s.synthesizeMouse(report)
		samples++
	}

	for {
		report, ok := s.keyboard.Consume()
		if !ok {
			break
		}
		s.synthesizeKeyboard(report)
		samples++
	}

	s.flush()
	s.flags.Replaying.Store(false)

	if s.flags.ProfilingEnabled.Load() {
		s.monitor.Tick(samples)
	} else {
		s.monitor.Reset()
	}

	return samples > 0
}

func (s *Synthesizer) synthesizeMouse(report input.MouseReport) {
	if report.X != 0 || report.Y != 0 {
		s.push(input.Request{Kind: input.RequestMove, DX: report.X, DY: report.Y})
	}

	changed := report.Buttons ^ s.lastButtons
	for _, bit := range [...]uint8{input.ButtonLeft, input.ButtonRight, input.ButtonMiddle} {
		if changed&bit != 0 {
			s.push(input.Request{
				Kind:   input.RequestButton,
				Button: bit,
				Down:   report.Buttons&bit != 0,
			})
		}
	}

	if report.Wheel != 0 {
		s.push(input.Request{Kind: input.RequestWheel, Wheel: report.Wheel})
	}

	s.lastButtons = report.Buttons
}

func (s *Synthesizer) synthesizeKeyboard(report input.KeyboardReport) {
	for _, key := range report.Keys {
		if key == 0 {
			continue
		}
		s.push(input.Request{Kind: input.RequestKey, Key: key, Down: true})
	}
}

func (s *Synthesizer) push(req input.Request) {
	s.batch[s.n] = req
	s.n++
	if s.n >= highWater {
		s.flush()
	}
}

func (s *Synthesizer) flush() {
	if s.n == 0 {
		return
	}
	if err := s.injector.Inject(s.batch[:s.n]); err != nil {
		log.Printf("Inject failed, %d requests dropped: %v", s.n, err)
	}
	s.n = 0
}
