// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package runtime

func replaceProcess(_ string, _ []string, _ []string) error {
	return ErrExecNotSupported
}
