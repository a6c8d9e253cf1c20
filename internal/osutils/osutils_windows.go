//go:build windows

package osutils

import (
	"fmt"

	"golang.org/x/sys/windows"
)

const threadPriorityTimeCritical = 15

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procGetCurrentThread  = kernel32.NewProc("GetCurrentThread")
	procSetThreadPriority = kernel32.NewProc("SetThreadPriority")
)

// IsAdmin checks whether the current process has administrative
// privileges. Low-level hooks work without elevation but lose events
// to elevated windows, so callers only warn on false.
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// PromoteThread raises the calling OS thread to time-critical
// priority. The caller must hold the thread with runtime.LockOSThread
// for the promotion to mean anything.
func PromoteThread() error {
	h, _, _ := procGetCurrentThread.Call()
	ret, _, err := procSetThreadPriority.Call(h, threadPriorityTimeCritical)
	if ret == 0 {
		return fmt.Errorf("SetThreadPriority: %v", err)
	}
	return nil
}
