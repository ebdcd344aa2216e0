// SPDX-License-Identifier: MPL-2.0

// Package issue holds the user-facing failure messages of the launcher and
// the actionable error type used to attach context to internal failures.
//
// Messages are looked up by fixed numeric ids in a golang.org/x/text
// catalogue with English, French and German translations. English is the
// fallback for any other language.
package issue
