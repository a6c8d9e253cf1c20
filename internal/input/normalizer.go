package input

import (
	"log"
	"time"

	"hidloop/internal/queue"
)

// PointerEventKind discriminates raw pointer notifications.
type PointerEventKind uint8

const (
	PointerMove PointerEventKind = iota
	PointerButton
	PointerWheel
)

// PointerEvent is one raw pointer notification as delivered by the
// capture hook: absolute cursor position for moves, a button bit and
// direction for clicks, a raw signed delta for wheel motion.
type PointerEvent struct {
	Kind       PointerEventKind
	X, Y       int32
	Button     uint8
	Down       bool
	WheelDelta int32
}

// Bindings holds the reserved control keys. They are consumed by the
// normalizer and never forwarded or captured.
type Bindings struct {
	PauseToggle     uint32
	ProfilingToggle uint32
	Exit            uint32
}

// DefaultBindings is F12 pause, F11 profiling, Esc exit.
func DefaultBindings() Bindings {
	return Bindings{
		PauseToggle:     VKF12,
		ProfilingToggle: VKF11,
		Exit:            VKEscape,
	}
}

// Normalizer converts raw hardware notifications into fixed-size
// reports and publishes them to the ring buffers. It runs inside the
// capture callback, so every path must finish quickly and must not
// block or allocate.
//
// All mutable fields are touched only from the capture thread.
type Normalizer struct {
	flags    *Flags
	mouse    *queue.Ring[MouseReport]
	keyboard *queue.Ring[KeyboardReport]
	bindings Bindings

	keys         KeyStateTable
	lastX, lastY int32
	buttons      uint8

	onExit func()
	ticks  func() uint32
}

// NewNormalizer wires a normalizer to the shared flags and the two
// transport rings.
func NewNormalizer(flags *Flags, mouse *queue.Ring[MouseReport], keyboard *queue.Ring[KeyboardReport], bindings Bindings) *Normalizer {
	start := time.Now()
	return &Normalizer{
		flags:    flags,
		mouse:    mouse,
		keyboard: keyboard,
		bindings: bindings,
		ticks: func() uint32 {
			return uint32(time.Since(start) / time.Millisecond)
		},
	}
}

// SetExitFunc registers a callback invoked from the capture thread when
// the exit key is pressed, after Running has been cleared.
func (n *Normalizer) SetExitFunc(fn func()) {
	n.onExit = fn
}

// SetClock overrides the millisecond tick source.
func (n *Normalizer) SetClock(ticks func() uint32) {
	n.ticks = ticks
}

// SeedCursor primes the last observed cursor position so the first
// move notification yields a sane delta instead of a jump from origin.
func (n *Normalizer) SeedCursor(x, y int32) {
	n.lastX, n.lastY = x, y
}

// HandlePointer normalizes one pointer notification. Zero or one
// report is published; pointer events are never consumed, they always
// continue through the OS input chain.
func (n *Normalizer) HandlePointer(ev PointerEvent) {
	if n.flags.Replaying.Load() || n.flags.CaptureSuppressed.Load() {
		return
	}

	report := MouseReport{Timestamp: n.ticks()}

	switch ev.Kind {
	case PointerMove:
		// int16 conversion wraps on extreme single-event deltas;
		// TestMoveDeltaWrapsAt16Bits pins that behavior.
		report.X = int16(ev.X - n.lastX)
		report.Y = int16(ev.Y - n.lastY)
		n.lastX, n.lastY = ev.X, ev.Y
		if report.X == 0 && report.Y == 0 {
			return
		}
		report.Buttons = n.buttons

	case PointerButton:
		if ev.Down {
			n.buttons |= ev.Button
		} else {
			n.buttons &^= ev.Button
		}
		report.Buttons = n.buttons

	case PointerWheel:
		switch {
		case ev.WheelDelta > 0:
			report.Wheel = 1
		case ev.WheelDelta < 0:
			report.Wheel = -1
		default:
			return
		}
		report.Buttons = n.buttons

	default:
		return
	}

	// Full ring drops the newest report; the hook has no way to slow
	// the hardware down, so saturation is silent by design.
	n.mouse.Publish(report)
}

// HandleKey normalizes one keyboard notification. The returned bool is
// true when the event is a reserved control key and must be swallowed
// by the hook instead of forwarded.
func (n *Normalizer) HandleKey(vk uint32, down bool) bool {
	if consumed := n.handleControlKey(vk, down); consumed {
		return true
	}

	if n.flags.Replaying.Load() || n.flags.CaptureSuppressed.Load() {
		return false
	}

	// Duplicate transition for an already-recorded state: drop.
	if !n.keys.Set(vk, down) {
		return false
	}

	n.keyboard.Publish(n.keys.Snapshot(n.ticks()))
	return false
}

// handleControlKey intercepts the reserved keys ahead of normalization
// and the suppression gate, so the pause toggle still works while
// capture is suppressed. Actions fire on key-down; both transitions
// are consumed so the keys never leak into the OS input stream.
func (n *Normalizer) handleControlKey(vk uint32, down bool) bool {
	switch vk {
	case n.bindings.PauseToggle:
		if down {
			paused := !n.flags.CaptureSuppressed.Load()
			n.flags.CaptureSuppressed.Store(paused)
			log.Printf("Capture suppression: %s", onOff(paused))
		}
		return true

	case n.bindings.ProfilingToggle:
		if down {
			enabled := !n.flags.ProfilingEnabled.Load()
			n.flags.ProfilingEnabled.Store(enabled)
			log.Printf("Performance monitor: %s", onOff(enabled))
		}
		return true

	case n.bindings.Exit:
		if down {
			log.Println("Exit key pressed, shutting down")
			n.flags.Running.Store(false)
			if n.onExit != nil {
				n.onExit()
			}
		}
		return true
	}
	return false
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
