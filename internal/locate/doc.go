// SPDX-License-Identifier: MPL-2.0

// Package locate resolves the files a launcher hands execution to.
//
// Both the interpreter binary and the script live next to the launcher's own
// executable. They are never looked up through PATH or an environment
// variable: the launcher's directory is the only search location.
package locate
