//go:build !windows
// +build !windows

package rscript

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Rscript starts R as child process, so it runs in its own group
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcess(cmd *exec.Cmd) error {
	pgid, err := unix.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return unix.Kill(-pgid, unix.SIGKILL)
}
