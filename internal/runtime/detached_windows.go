// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"os/exec"
	"syscall"
)

// setRawCommandLine hands the rebuilt command line to CreateProcess verbatim,
// so the tail keeps the caller's original quoting.
func setRawCommandLine(cmd *exec.Cmd, commandLine string) {
	if commandLine == "" {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: commandLine}
}
