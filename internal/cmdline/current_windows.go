// SPDX-License-Identifier: MPL-2.0

//go:build windows

package cmdline

import "golang.org/x/sys/windows"

// Current returns the raw command line exactly as Windows reports it.
func Current() string {
	return windows.UTF16PtrToString(windows.GetCommandLine())
}
