//go:build !windows

package input

import "fmt"

// SendInputInjector is a stub on platforms without synthetic input
// support.
type SendInputInjector struct{}

// NewSendInputInjector creates a stub injector.
func NewSendInputInjector() *SendInputInjector {
	return &SendInputInjector{}
}

// Inject reports that injection is unavailable on this platform.
func (inj *SendInputInjector) Inject(batch []Request) error {
	return fmt.Errorf("input injection not supported on this platform")
}
