// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// DetachedRuntime starts the interpreter and returns without waiting for it.
// The launcher's exit code is always 0 once the child has started.
type DetachedRuntime struct {
	// start is swapped in tests to observe the started command.
	start func(cmd *exec.Cmd) error
}

// NewDetachedRuntime creates a new detached runtime
func NewDetachedRuntime() *DetachedRuntime {
	return &DetachedRuntime{start: startAndRelease}
}

// Name returns the runtime name
func (r *DetachedRuntime) Name() string {
	return string(RuntimeTypeDetached)
}

// Available returns whether this runtime is available
func (r *DetachedRuntime) Available() bool {
	return true
}

// NeedsInterpreter reports that the interpreter binary must exist on disk.
func (r *DetachedRuntime) NeedsInterpreter() bool {
	return true
}

// Validate checks that both sibling paths have been resolved.
func (r *DetachedRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Paths.Interpreter == "" {
		return fmt.Errorf("detached runtime: interpreter path not resolved")
	}
	if ctx.Paths.Script == "" {
		return fmt.Errorf("detached runtime: script path not resolved")
	}
	return nil
}

// Execute starts the interpreter and releases the process handle.
func (r *DetachedRuntime) Execute(ctx *ExecutionContext) *Result {
	cmd := r.command(ctx)

	if err := r.start(cmd); err != nil {
		return NewErrorResult(1, &SpawnError{Path: ctx.Paths.Interpreter, Err: err})
	}

	slog.Debug("interpreter detached", "interpreter", ctx.Paths.Interpreter, "script", ctx.Paths.Script)
	return NewSuccessResult()
}

// command builds the child process description. Standard handles and the
// environment are inherited as-is. Interpreter switches are not applied: the
// raw command line has a fixed "<interpreter>" "<script>"<tail> shape.
func (r *DetachedRuntime) command(ctx *ExecutionContext) *exec.Cmd {
	args := make([]string, 0, len(ctx.Args)+1)
	args = append(args, ctx.Paths.Script)
	args = append(args, ctx.Args...)

	//nolint:gosec // interpreter path is a sibling of the launcher, never user input
	cmd := exec.Command(ctx.Paths.Interpreter, args...)
	cmd.Env = ctx.Env
	cmd.Stdin = ctx.IO.Stdin
	cmd.Stdout = ctx.IO.Stdout
	cmd.Stderr = ctx.IO.Stderr
	setRawCommandLine(cmd, ctx.CommandLine)
	return cmd
}

func startAndRelease(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
