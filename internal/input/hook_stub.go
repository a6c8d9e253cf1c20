//go:build !windows

package input

import "fmt"

// Capture is a stub on platforms without low-level hook support.
type Capture struct{}

// NewCapture creates a stub capture.
func NewCapture(n *Normalizer) *Capture {
	return &Capture{}
}

// Start reports that capture is unavailable on this platform.
func (c *Capture) Start() error {
	return fmt.Errorf("input capture not supported on this platform")
}

// Stop is a no-op.
func (c *Capture) Stop() {}

// Wait returns immediately.
func (c *Capture) Wait() {}
