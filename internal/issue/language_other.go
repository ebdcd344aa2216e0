// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package issue

import "os"

// preferredLocales returns the POSIX locale variables in precedence order.
func preferredLocales() []string {
	var out []string
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			out = append(out, v)
		}
	}
	return out
}
