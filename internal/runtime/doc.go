// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the launch strategies that hand execution over to
// the script interpreter.
//
// Three runtime implementations are available:
//   - detached: starts the interpreter as a child process and returns without waiting
//   - forward: runs the interpreter synchronously and forwards its exit code
//   - embedded: runs the script in-process with an embedded shell interpreter (mvdan/sh)
//
// All runtimes implement the Runtime interface with Name(), Available(),
// NeedsInterpreter(), Validate() and Execute(). ExecutionContext carries the
// resolved sibling paths, the launcher's own arguments, the rebuilt command line
// and the I/O streams.
package runtime
