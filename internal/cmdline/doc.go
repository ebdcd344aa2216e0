// SPDX-License-Identifier: MPL-2.0

// Package cmdline rebuilds the launcher's raw command line so that the
// interpreter and the script come first and every argument the launcher
// received follows verbatim.
package cmdline
