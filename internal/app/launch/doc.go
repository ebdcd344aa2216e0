// SPDX-License-Identifier: MPL-2.0

// Package launch runs one launcher invocation: resolve the sibling
// interpreter and script, build the arguments, hand off to the configured
// runtime, and turn every failure into a user notification and an exit code.
package launch
