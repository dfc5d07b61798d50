//go:build !unix

package runner

import "os/exec"

// Only the direct child is killed here; WaitDelay still bounds the wait.
func killGroupOnCancel(c *exec.Cmd) {}
