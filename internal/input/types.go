// Package input provides input event normalization, capture, and injection.
package input

// Loopback HID identity advertised in diagnostics. The pipeline itself
// is device-agnostic; these match the peripheral the tool was first
// built against.
const (
	LoopbackVendorID  = 0x0C45
	LoopbackProductID = 0x7403
)

// Mouse button bits within MouseReport.Buttons.
const (
	ButtonLeft   uint8 = 0x01
	ButtonRight  uint8 = 0x02
	ButtonMiddle uint8 = 0x04
)

// Modifier bits within KeyboardReport.Modifiers.
const (
	ModCtrl  uint8 = 0x01
	ModShift uint8 = 0x02
	ModAlt   uint8 = 0x04
	ModMeta  uint8 = 0x08
)

// Virtual-key codes used by the normalizer and the default bindings.
const (
	VKEscape   uint32 = 0x1B
	VKLShift   uint32 = 0xA0
	VKRShift   uint32 = 0xA1
	VKLControl uint32 = 0xA2
	VKRControl uint32 = 0xA3
	VKLAlt     uint32 = 0xA4
	VKRAlt     uint32 = 0xA5
	VKLMeta    uint32 = 0x5B
	VKRMeta    uint32 = 0x5C
	VKF11      uint32 = 0x7A
	VKF12      uint32 = 0x7B
)

// MaxKeys is the number of simultaneously reported non-modifier keys.
// Keys held beyond the cap are silently omitted.
const MaxKeys = 6

// MouseReport is one normalized pointer event. Buttons carries the full
// button mask as of this event, not just the bit that changed, so the
// replay side can diff consecutive reports.
type MouseReport struct {
	Buttons   uint8
	X         int16
	Y         int16
	Wheel     int8 // normalized to -1, 0, or +1
	Timestamp uint32
}

// KeyboardReport is one normalized keyboard snapshot: every currently
// held non-modifier key (up to MaxKeys, unused slots zero) plus the
// modifier mask.
type KeyboardReport struct {
	Modifiers uint8
	Reserved  uint8
	Keys      [MaxKeys]uint8
	Timestamp uint32
}

// RequestKind discriminates synthetic-input requests.
type RequestKind uint8

const (
	RequestMove RequestKind = iota
	RequestButton
	RequestWheel
	RequestKey
)

// Request is one synthetic input operation handed to an Injector.
type Request struct {
	Kind   RequestKind
	DX     int16 // RequestMove
	DY     int16
	Button uint8 // RequestButton
	Down   bool
	Wheel  int8  // RequestWheel, unit steps
	Key    uint8 // RequestKey
}

// InjectBatchMax caps how many requests an Injector receives per call.
const InjectBatchMax = 10

// Injector submits a batch of synthetic input requests to the OS input
// stream. Implementations receive at most InjectBatchMax requests per
// call.
type Injector interface {
	Inject(batch []Request) error
}
