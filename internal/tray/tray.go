// Package tray provides the system tray control surface using
// getlantern/systray.
package tray

import (
	"log"
	"time"

	"github.com/getlantern/systray"

	"hidloop/internal/input"
)

// Tray mirrors the control-key state machine as a tray menu: checkable
// pause and profiling toggles plus a quit action. The menu writes the
// same shared flags the reserved keys do.
type Tray struct {
	tooltip string
	flags   *input.Flags
	onQuit  func()
	quitCh  chan struct{}
}

// New creates a tray bound to the shared flags. onQuit is invoked when
// the user picks Quit from the menu.
func New(tooltip string, flags *input.Flags, onQuit func()) *Tray {
	return &Tray{
		tooltip: tooltip,
		flags:   flags,
		onQuit:  onQuit,
		quitCh:  make(chan struct{}),
	}
}

// Run starts the tray event loop (blocks until Stop or Quit).
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// Stop stops the tray.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onExit() {
	close(t.quitCh)
}

// setupMenu is called when systray is ready.
func (t *Tray) setupMenu() {
	systray.SetTitle("HID Loopback")
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())

	pause := systray.AddMenuItemCheckbox("Pause capture", "Stop queueing captured input", t.flags.CaptureSuppressed.Load())
	perf := systray.AddMenuItemCheckbox("Performance monitor", "Log throughput once per second", t.flags.ProfilingEnabled.Load())
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "")

	go func() {
		// The reserved keys flip the same flags, so the check marks are
		// re-synced periodically as well as on clicks.
		sync := time.NewTicker(time.Second)
		defer sync.Stop()

		for {
			select {
			case <-pause.ClickedCh:
				paused := !t.flags.CaptureSuppressed.Load()
				t.flags.CaptureSuppressed.Store(paused)
				log.Printf("Capture suppression: %s (tray)", onOff(paused))

			case <-perf.ClickedCh:
				enabled := !t.flags.ProfilingEnabled.Load()
				t.flags.ProfilingEnabled.Store(enabled)
				log.Printf("Performance monitor: %s (tray)", onOff(enabled))

			case <-quit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return

			case <-sync.C:

			case <-t.quitCh:
				return
			}

			setChecked(pause, t.flags.CaptureSuppressed.Load())
			setChecked(perf, t.flags.ProfilingEnabled.Load())
		}
	}()
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

// getIcon returns a placeholder icon (valid 16x16 ICO).
func getIcon() []byte {
	// A valid 16x16 32-bit ICO file with correct size and DIB header
	icon := make([]byte, 1118)
	// ICO Header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon Directory
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	// DIB Header
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x20, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	// The rest (pixels and mask) can stay 0 for transparency
	return icon
}
