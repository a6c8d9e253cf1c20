//go:build !windows

package osutils

// IsAdmin is a stub for non-Windows platforms.
func IsAdmin() bool {
	return false
}

// PromoteThread is a stub for non-Windows platforms.
func PromoteThread() error {
	return nil
}
