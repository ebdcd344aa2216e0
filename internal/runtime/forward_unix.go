// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import "golang.org/x/sys/unix"

// replaceProcess replaces the current process image. It only returns on failure.
func replaceProcess(argv0 string, argv []string, env []string) error {
	return unix.Exec(argv0, argv, env)
}
