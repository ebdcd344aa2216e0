// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import "os/exec"

// setRawCommandLine is a no-op outside Windows: exec takes an argument
// vector, so the child receives [interpreter, script, args...] instead.
func setRawCommandLine(_ *exec.Cmd, _ string) {}
