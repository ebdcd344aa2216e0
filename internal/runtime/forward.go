// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// ErrExecNotSupported is returned by the process replacement path on
// platforms without an exec(2) equivalent.
var ErrExecNotSupported = errors.New("process replacement not supported on this platform")

// ForwardRuntime runs the interpreter synchronously and forwards its exit code.
type ForwardRuntime struct {
	// ReplaceProcess replaces the launcher image with the interpreter instead
	// of spawning a child. Unsupported platforms fall back to a spawn.
	ReplaceProcess bool

	replace func(argv0 string, argv []string, env []string) error
}

// NewForwardRuntime creates a new forward runtime
func NewForwardRuntime(replace bool) *ForwardRuntime {
	return &ForwardRuntime{
		ReplaceProcess: replace,
		replace:        replaceProcess,
	}
}

// Name returns the runtime name
func (r *ForwardRuntime) Name() string {
	return string(RuntimeTypeForward)
}

// Available returns whether this runtime is available
func (r *ForwardRuntime) Available() bool {
	return true
}

// NeedsInterpreter reports that the interpreter binary must exist on disk.
func (r *ForwardRuntime) NeedsInterpreter() bool {
	return true
}

// Validate checks that both sibling paths have been resolved.
func (r *ForwardRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Paths.Interpreter == "" {
		return fmt.Errorf("forward runtime: interpreter path not resolved")
	}
	if ctx.Paths.Script == "" {
		return fmt.Errorf("forward runtime: script path not resolved")
	}
	return nil
}

// Execute runs [interpreter, switches..., "--", script, args...] and waits for it.
func (r *ForwardRuntime) Execute(ctx *ExecutionContext) *Result {
	argv := ArgumentVector(ctx.Paths.Interpreter, ctx.InterpreterArgs, ctx.Paths.Script, ctx.Args)

	if r.ReplaceProcess {
		// Only returns on failure.
		err := r.replace(ctx.Paths.Interpreter, argv, ctx.Env)
		if !errors.Is(err, ErrExecNotSupported) {
			return NewErrorResult(1, &SpawnError{Path: ctx.Paths.Interpreter, Err: err})
		}
		slog.Debug("process replacement unavailable, spawning instead", "error", err)
	}

	//nolint:gosec // interpreter path is a sibling of the launcher, never user input
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = ctx.Env
	cmd.Stdin = ctx.IO.Stdin
	cmd.Stdout = ctx.IO.Stdout
	cmd.Stderr = ctx.IO.Stderr

	if err := cmd.Start(); err != nil {
		return NewErrorResult(1, &SpawnError{Path: ctx.Paths.Interpreter, Err: err})
	}

	code, err := exitCodeOf(cmd.Wait())
	if err != nil {
		return NewErrorResult(code, fmt.Errorf("waiting for interpreter: %w", err))
	}

	slog.Debug("interpreter exited", "exit_code", code)
	return NewExitCodeResult(code)
}
