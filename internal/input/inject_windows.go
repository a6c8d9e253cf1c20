//go:build windows

package input

import (
	"fmt"
	"unsafe"
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventFMove       = 0x0001
	mouseEventFLeftDown   = 0x0002
	mouseEventFLeftUp     = 0x0004
	mouseEventFRightDown  = 0x0008
	mouseEventFRightUp    = 0x0010
	mouseEventFMiddleDown = 0x0020
	mouseEventFMiddleUp   = 0x0040
	mouseEventFWheel      = 0x0800

	keyEventFKeyUp = 0x0002

	wheelDelta = 120
)

// mouseInput mirrors MOUSEINPUT, the largest arm of the INPUT union.
type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// keybdInput mirrors KEYBDINPUT; it is overlaid on the union area.
type keybdInput struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// winInput mirrors INPUT with the union sized to its mouse arm.
type winInput struct {
	Type uint32
	_    uint32 // union is pointer-aligned
	Mi   mouseInput
}

// SendInputInjector turns request batches into INPUT records and
// submits them with a single SendInput call per batch.
type SendInputInjector struct {
	buf [InjectBatchMax]winInput
}

// NewSendInputInjector creates the SendInput-backed injector.
func NewSendInputInjector() *SendInputInjector {
	return &SendInputInjector{}
}

// Inject submits up to InjectBatchMax requests to the OS input stream.
func (inj *SendInputInjector) Inject(batch []Request) error {
	if len(batch) == 0 {
		return nil
	}
	if len(batch) > InjectBatchMax {
		batch = batch[:InjectBatchMax]
	}

	for i, req := range batch {
		in := &inj.buf[i]
		*in = winInput{}

		switch req.Kind {
		case RequestMove:
			in.Type = inputMouse
			in.Mi.Dx = int32(req.DX)
			in.Mi.Dy = int32(req.DY)
			in.Mi.DwFlags = mouseEventFMove

		case RequestButton:
			in.Type = inputMouse
			in.Mi.DwFlags = buttonFlag(req.Button, req.Down)

		case RequestWheel:
			in.Type = inputMouse
			in.Mi.MouseData = uint32(int32(req.Wheel) * wheelDelta)
			in.Mi.DwFlags = mouseEventFWheel

		case RequestKey:
			in.Type = inputKeyboard
			ki := (*keybdInput)(unsafe.Pointer(&in.Mi))
			ki.WVk = uint16(req.Key)
			if !req.Down {
				ki.DwFlags = keyEventFKeyUp
			}
		}
	}

	sent, _, err := procSendInput.Call(
		uintptr(len(batch)),
		uintptr(unsafe.Pointer(&inj.buf[0])),
		unsafe.Sizeof(winInput{}),
	)
	if sent == 0 {
		return fmt.Errorf("SendInput: %v", err)
	}
	return nil
}

func buttonFlag(button uint8, down bool) uint32 {
	switch button {
	case ButtonLeft:
		if down {
			return mouseEventFLeftDown
		}
		return mouseEventFLeftUp
	case ButtonRight:
		if down {
			return mouseEventFRightDown
		}
		return mouseEventFRightUp
	case ButtonMiddle:
		if down {
			return mouseEventFMiddleDown
		}
		return mouseEventFMiddleUp
	}
	return 0
}
