// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package cmdline

import "os"

// Current synthesizes a raw command line from os.Args, since POSIX systems
// only hand a process its argument vector.
func Current() string {
	return Join(os.Args)
}
