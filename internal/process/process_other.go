//go:build !unix

package process

import "os/exec"

// killGroupOnCancel leaves the default cancel behavior in place; WaitDelay
// still bounds the wait for inherited pipes.
func killGroupOnCancel(*exec.Cmd) {}
