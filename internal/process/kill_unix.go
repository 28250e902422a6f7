//go:build !windows

// Package process terminates browser process trees.
package process

import "syscall"

// KillTree sends SIGKILL to pid's process group so renderer and GPU helpers
// die with the browser. Errors are ignored; the launcher kill is the fallback.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
