//go:build windows

package input

import (
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")

	procGetModuleHandle    = kernel32.NewProc("GetModuleHandleW")
	procGetCurrentThreadID = kernel32.NewProc("GetCurrentThreadId")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A

	wmQuit = 0x0012
)

type point struct {
	X, Y int32
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// Capture owns the low-level mouse and keyboard hooks. Both hooks are
// installed on one locked OS thread that then pumps messages; the hook
// procedures run synchronously on that thread, which keeps the
// single-producer discipline of the rings.
type Capture struct {
	normalizer *Normalizer

	mouseHook    uintptr
	keyboardHook uintptr
	threadID     atomic.Uint32
	done         chan struct{}
}

// NewCapture binds a capture to the normalizer that will process its
// notifications.
func NewCapture(n *Normalizer) *Capture {
	return &Capture{
		normalizer: n,
		done:       make(chan struct{}),
	}
}

// Start installs both hooks and begins pumping messages on a dedicated
// locked thread. It returns only after installation has succeeded or
// failed, so callers can refuse to start the replay thread on failure.
func (c *Capture) Start() error {
	errCh := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(c.done)

		tid, _, _ := procGetCurrentThreadID.Call()
		c.threadID.Store(uint32(tid))

		hMod, _, _ := procGetModuleHandle.Call(0)

		mouseHook, _, err := procSetWindowsHookEx.Call(
			whMouseLL,
			syscall.NewCallback(c.mouseProc),
			hMod,
			0,
		)
		if mouseHook == 0 {
			errCh <- fmt.Errorf("install mouse hook: %v", err)
			return
		}
		c.mouseHook = mouseHook

		keyboardHook, _, err := procSetWindowsHookEx.Call(
			whKeyboardLL,
			syscall.NewCallback(c.keyboardProc),
			hMod,
			0,
		)
		if keyboardHook == 0 {
			procUnhookWindowsHookEx.Call(mouseHook)
			c.mouseHook = 0
			errCh <- fmt.Errorf("install keyboard hook: %v", err)
			return
		}
		c.keyboardHook = keyboardHook

		// Seed the last cursor position so the first move delta is
		// relative to where the pointer actually is.
		var pt point
		procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
		c.normalizer.SeedCursor(pt.X, pt.Y)

		errCh <- nil

		c.pump()
		c.unhook()
	}()

	return <-errCh
}

// Stop asks the hook thread to exit its message loop. Safe to call
// from any goroutine, including the hook thread itself.
func (c *Capture) Stop() {
	if tid := c.threadID.Load(); tid != 0 {
		procPostThreadMessage.Call(uintptr(tid), wmQuit, 0, 0)
	}
}

// Wait blocks until the hook thread has exited and the hooks are
// removed.
func (c *Capture) Wait() {
	<-c.done
}

func (c *Capture) pump() {
	var m msg
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (c *Capture) unhook() {
	if c.mouseHook != 0 {
		procUnhookWindowsHookEx.Call(c.mouseHook)
		c.mouseHook = 0
	}
	if c.keyboardHook != 0 {
		procUnhookWindowsHookEx.Call(c.keyboardHook)
		c.keyboardHook = 0
	}
	log.Println("Input hooks removed")
}

// mouseProc translates low-level mouse messages into pointer events.
// Pointer events are never swallowed; the hook always yields to the
// next handler in the chain.
func (c *Capture) mouseProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		hs := (*msllHookStruct)(unsafe.Pointer(lParam))

		switch wParam {
		case wmMouseMove:
			c.normalizer.HandlePointer(PointerEvent{
				Kind: PointerMove,
				X:    hs.Pt.X,
				Y:    hs.Pt.Y,
			})
		case wmLButtonDown, wmLButtonUp:
			c.normalizer.HandlePointer(PointerEvent{
				Kind:   PointerButton,
				Button: ButtonLeft,
				Down:   wParam == wmLButtonDown,
			})
		case wmRButtonDown, wmRButtonUp:
			c.normalizer.HandlePointer(PointerEvent{
				Kind:   PointerButton,
				Button: ButtonRight,
				Down:   wParam == wmRButtonDown,
			})
		case wmMButtonDown, wmMButtonUp:
			c.normalizer.HandlePointer(PointerEvent{
				Kind:   PointerButton,
				Button: ButtonMiddle,
				Down:   wParam == wmMButtonDown,
			})
		case wmMouseWheel:
			// Wheel delta rides in the high word of mouseData, signed.
			delta := int32(int16(hs.MouseData >> 16))
			c.normalizer.HandlePointer(PointerEvent{
				Kind:       PointerWheel,
				WheelDelta: delta,
			})
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// keyboardProc translates low-level keyboard messages. Reserved
// control keys are swallowed by returning nonzero instead of chaining.
func (c *Capture) keyboardProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		hs := (*kbdllHookStruct)(unsafe.Pointer(lParam))

		switch wParam {
		case wmKeyDown, wmSysKeyDown:
			if c.normalizer.HandleKey(hs.VkCode, true) {
				return 1
			}
		case wmKeyUp, wmSysKeyUp:
			if c.normalizer.HandleKey(hs.VkCode, false) {
				return 1
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}
