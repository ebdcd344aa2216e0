// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// turns CUE errors into single-line, path-prefixed messages.
package cueutil
