//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

func killGroupOnCancel(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		// A negative pid signals every process in the group.
		return syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}
}
