package input

import (
	"testing"

	"hidloop/internal/queue"
)

func newTestNormalizer() (*Normalizer, *Flags, *queue.Ring[MouseReport], *queue.Ring[KeyboardReport]) {
	flags := NewFlags()
	mouse := queue.New[MouseReport](queue.DefaultCapacity)
	keyboard := queue.New[KeyboardReport](queue.DefaultCapacity)
	n := NewNormalizer(flags, mouse, keyboard, DefaultBindings())
	n.SetClock(func() uint32 { return 42 })
	return n, flags, mouse, keyboard
}

func mustConsumeMouse(t *testing.T, ring *queue.Ring[MouseReport]) MouseReport {
	t.Helper()
	r, ok := ring.Consume()
	if !ok {
		t.Fatal("expected a mouse report, ring is empty")
	}
	return r
}

// TestMoveDelta verifies relative displacement against the last
// observed absolute position.
func TestMoveDelta(t *testing.T) {
	n, _, mouse, _ := newTestNormalizer()
	n.SeedCursor(100, 200)

	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 105, Y: 195})

	r := mustConsumeMouse(t, mouse)
	if r.X != 5 || r.Y != -5 {
		t.Errorf("delta = (%d, %d), want (5, -5)", r.X, r.Y)
	}
	if r.Timestamp != 42 {
		t.Errorf("timestamp = %d, want 42", r.Timestamp)
	}

	// Deltas chain from the updated position.
	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 105, Y: 200})
	r = mustConsumeMouse(t, mouse)
	if r.X != 0 || r.Y != 5 {
		t.Errorf("second delta = (%d, %d), want (0, 5)", r.X, r.Y)
	}
}

// TestZeroMotionSuppression checks that a move notification with no
// net displacement publishes nothing.
func TestZeroMotionSuppression(t *testing.T) {
	n, _, mouse, _ := newTestNormalizer()
	n.SeedCursor(50, 50)

	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 50, Y: 50})

	if !mouse.Empty() {
		t.Error("zero-motion move published a report")
	}
}

// TestMoveDeltaWrapsAt16Bits pins the unclamped int16 conversion: an
// extreme single-notification delta wraps instead of saturating.
func TestMoveDeltaWrapsAt16Bits(t *testing.T) {
	n, _, mouse, _ := newTestNormalizer()
	n.SeedCursor(0, 0)

	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 40000, Y: 0})

	r := mustConsumeMouse(t, mouse)
	dx := int32(40000)
	if r.X != int16(dx) { // wraps to -25536
		t.Errorf("dx = %d, want wrapped value %d", r.X, int16(dx))
	}
}

// TestWheelNormalization checks that raw wheel deltas collapse to unit
// steps in the direction of motion.
func TestWheelNormalization(t *testing.T) {
	cases := []struct {
		delta int32
		want  int8
	}{
		{1, 1},
		{120, 1},
		{-500, -1},
	}

	for _, tc := range cases {
		n, _, mouse, _ := newTestNormalizer()
		n.HandlePointer(PointerEvent{Kind: PointerWheel, WheelDelta: tc.delta})
		r := mustConsumeMouse(t, mouse)
		if r.Wheel != tc.want {
			t.Errorf("wheel delta %d normalized to %d, want %d", tc.delta, r.Wheel, tc.want)
		}
	}
}

// TestZeroWheelDropped checks that a wheel notification without motion
// publishes nothing.
func TestZeroWheelDropped(t *testing.T) {
	n, _, mouse, _ := newTestNormalizer()
	n.HandlePointer(PointerEvent{Kind: PointerWheel, WheelDelta: 0})
	if !mouse.Empty() {
		t.Error("zero wheel delta published a report")
	}
}

// TestButtonMaskAccumulates verifies that each button notification
// publishes the full current mask, so presses and releases of
// different buttons fold into consistent absolute states.
func TestButtonMaskAccumulates(t *testing.T) {
	n, _, mouse, _ := newTestNormalizer()

	n.HandlePointer(PointerEvent{Kind: PointerButton, Button: ButtonLeft, Down: true})
	if r := mustConsumeMouse(t, mouse); r.Buttons != ButtonLeft {
		t.Errorf("after left down, mask = %#02x, want %#02x", r.Buttons, ButtonLeft)
	}

	n.HandlePointer(PointerEvent{Kind: PointerButton, Button: ButtonRight, Down: true})
	if r := mustConsumeMouse(t, mouse); r.Buttons != ButtonLeft|ButtonRight {
		t.Errorf("after right down, mask = %#02x, want %#02x", r.Buttons, ButtonLeft|ButtonRight)
	}

	n.HandlePointer(PointerEvent{Kind: PointerButton, Button: ButtonLeft, Down: false})
	if r := mustConsumeMouse(t, mouse); r.Buttons != ButtonRight {
		t.Errorf("after left up, mask = %#02x, want %#02x", r.Buttons, ButtonRight)
	}
}

// TestDuplicateKeySuppression checks that a repeated transition for
// the same key code publishes only one snapshot.
func TestDuplicateKeySuppression(t *testing.T) {
	n, _, _, keyboard := newTestNormalizer()

	n.HandleKey(0x41, true)
	n.HandleKey(0x41, true) // auto-repeat, same recorded state

	if _, ok := keyboard.Consume(); !ok {
		t.Fatal("first transition published nothing")
	}
	if !keyboard.Empty() {
		t.Error("duplicate transition published a second snapshot")
	}
}

// TestSnapshotIsFullState checks the full-snapshot model: the report
// for a new key includes keys that were already held.
func TestSnapshotIsFullState(t *testing.T) {
	n, _, _, keyboard := newTestNormalizer()

	n.HandleKey(0x41, true)
	keyboard.Consume()
	n.HandleKey(0x42, true)

	r, ok := keyboard.Consume()
	if !ok {
		t.Fatal("second key published nothing")
	}
	if r.Keys[0] != 0x41 || r.Keys[1] != 0x42 {
		t.Errorf("snapshot keys = %v, want [0x41 0x42 0 0 0 0]", r.Keys)
	}
}

// TestSixKeyCap holds eight non-modifier keys and expects exactly six
// in the snapshot, chosen by ascending code order, with no modifier
// codes among them.
func TestSixKeyCap(t *testing.T) {
	n, _, _, keyboard := newTestNormalizer()

	n.HandleKey(VKLShift, true)
	keyboard.Consume()

	codes := []uint32{0x48, 0x41, 0x47, 0x42, 0x46, 0x43, 0x45, 0x44}
	for _, code := range codes {
		n.HandleKey(code, true)
	}

	var last KeyboardReport
	for {
		r, ok := keyboard.Consume()
		if !ok {
			break
		}
		last = r
	}

	want := [MaxKeys]uint8{0x41, 0x42, 0x43, 0x44, 0x45, 0x46}
	if last.Keys != want {
		t.Errorf("snapshot keys = %v, want %v", last.Keys, want)
	}
	if last.Modifiers != ModShift {
		t.Errorf("modifiers = %#02x, want %#02x", last.Modifiers, ModShift)
	}
	for _, k := range last.Keys {
		if isModifier(uint32(k)) {
			t.Errorf("modifier code %#02x leaked into key slots", k)
		}
	}
}

// TestFeedbackSuppression verifies that no samples are published while
// the replay thread holds the Replaying flag.
func TestFeedbackSuppression(t *testing.T) {
	n, flags, mouse, keyboard := newTestNormalizer()
	n.SeedCursor(0, 0)
	flags.Replaying.Store(true)

	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 10, Y: 10})
	n.HandlePointer(PointerEvent{Kind: PointerButton, Button: ButtonLeft, Down: true})
	if consumed := n.HandleKey(0x41, true); consumed {
		t.Error("ordinary key was consumed during replay")
	}

	if !mouse.Empty() || !keyboard.Empty() {
		t.Error("samples were published while replaying")
	}
}

// TestCaptureSuppression verifies the pause behavior: events pass
// through unqueued while CaptureSuppressed is set.
func TestCaptureSuppression(t *testing.T) {
	n, flags, mouse, keyboard := newTestNormalizer()
	n.SeedCursor(0, 0)
	flags.CaptureSuppressed.Store(true)

	n.HandlePointer(PointerEvent{Kind: PointerMove, X: 10, Y: 10})
	n.HandleKey(0x41, true)

	if !mouse.Empty() || !keyboard.Empty() {
		t.Error("samples were published while capture was suppressed")
	}
}

// TestPauseToggleKey checks that the pause key is consumed on both
// transitions, flips the flag on key-down, and keeps working while
// capture is suppressed.
func TestPauseToggleKey(t *testing.T) {
	n, flags, _, keyboard := newTestNormalizer()

	if !n.HandleKey(VKF12, true) {
		t.Error("pause key-down was not consumed")
	}
	if !flags.CaptureSuppressed.Load() {
		t.Error("pause key did not suppress capture")
	}
	if !n.HandleKey(VKF12, false) {
		t.Error("pause key-up was not consumed")
	}

	// Toggle back while suspended.
	if !n.HandleKey(VKF12, true) {
		t.Error("pause key-down was not consumed while suspended")
	}
	if flags.CaptureSuppressed.Load() {
		t.Error("pause key did not resume capture")
	}

	if !keyboard.Empty() {
		t.Error("control key produced keyboard snapshots")
	}
}

// TestProfilingToggleKey checks the profiling overlay toggle.
func TestProfilingToggleKey(t *testing.T) {
	n, flags, _, _ := newTestNormalizer()

	n.HandleKey(VKF11, true)
	if !flags.ProfilingEnabled.Load() {
		t.Error("profiling key did not enable profiling")
	}
	n.HandleKey(VKF11, false)
	n.HandleKey(VKF11, true)
	if flags.ProfilingEnabled.Load() {
		t.Error("profiling key did not disable profiling")
	}
}

// TestExitKey checks that the exit key clears Running, fires the exit
// callback, and is consumed.
func TestExitKey(t *testing.T) {
	n, flags, _, keyboard := newTestNormalizer()

	exited := false
	n.SetExitFunc(func() { exited = true })

	if !n.HandleKey(VKEscape, true) {
		t.Error("exit key was not consumed")
	}
	if flags.Running.Load() {
		t.Error("exit key did not clear Running")
	}
	if !exited {
		t.Error("exit callback was not invoked")
	}
	if !keyboard.Empty() {
		t.Error("exit key produced a keyboard snapshot")
	}
}
