// SPDX-License-Identifier: MPL-2.0

// Package notify reports launcher failures to the user: a message box on
// Windows, styled text on the console elsewhere.
package notify
