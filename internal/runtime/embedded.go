// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/invowk/shimrun/internal/locate"
)

// Argv0EnvVar carries the advisory argv[0] into the embedded interpreter's
// environment, since the interpreter derives its own program name.
const Argv0EnvVar = "SHIMRUN_ARGV0"

type (
	// Engine is one in-process interpreter instance. Close destructs it and
	// must be called exactly once, whatever Parse or Run returned.
	Engine interface {
		// Parse loads argv as [argv0, switches..., "--", script, args...].
		Parse(argv []string, env []string) error
		// Run executes the parsed script and returns its exit status.
		Run(ctx context.Context) (ExitCode, error)
		// Close releases the instance.
		Close() error
	}

	// EngineFactory allocates and constructs interpreter instances.
	EngineFactory interface {
		// New allocates and constructs an instance bound to the given streams.
		New(io IOContext) (Engine, error)
		// Module returns the path of the binary that provides the runtime,
		// or "" when it is linked into the launcher itself.
		Module() string
	}

	// EmbeddedRuntime runs the script inside the launcher's own process.
	EmbeddedRuntime struct {
		Factory EngineFactory

		exists func(path string) bool
	}
)

// NewEmbeddedRuntime creates a new embedded runtime
func NewEmbeddedRuntime(factory EngineFactory) *EmbeddedRuntime {
	return &EmbeddedRuntime{
		Factory: factory,
		exists:  fileExists,
	}
}

// Name returns the runtime name
func (r *EmbeddedRuntime) Name() string {
	return string(RuntimeTypeEmbedded)
}

// Available returns whether this runtime is available
func (r *EmbeddedRuntime) Available() bool {
	return r.Factory != nil
}

// NeedsInterpreter reports false: the interpreter is linked in, only the script is required.
func (r *EmbeddedRuntime) NeedsInterpreter() bool {
	return false
}

// Validate checks that the script path has been resolved.
func (r *EmbeddedRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Paths.Script == "" {
		return fmt.Errorf("embedded runtime: script path not resolved")
	}
	return nil
}

// Execute constructs an interpreter, runs the script and destructs the
// interpreter before returning, on every path.
func (r *EmbeddedRuntime) Execute(ctx *ExecutionContext) *Result {
	engine, err := r.Factory.New(ctx.IO)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("%w: %w", ErrAllocationFailed, err))
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Warn("embedded interpreter teardown failed", "error", closeErr)
		}
	}()

	argv0 := r.AdvisoryArgv0(ctx.Paths.Executable, ctx.Paths.Interpreter, ctx.WindowedInterpreter)
	argv := ArgumentVector(argv0, ctx.InterpreterArgs, ctx.Paths.Script, ctx.Args)
	env := append(slices.Clone(ctx.Env), Argv0EnvVar+"="+argv0)

	if err := engine.Parse(argv, env); err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	runCtx := ctx.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	code, err := engine.Run(runCtx)
	if err != nil {
		return NewErrorResult(code, fmt.Errorf("script execution failed: %w", err))
	}
	return NewExitCodeResult(code)
}

// AdvisoryArgv0 picks the program name handed to the embedded interpreter.
// When the runtime comes from a module other than the launcher, the windowed
// sibling of that module is used if it exists; otherwise interpreter.
func (r *EmbeddedRuntime) AdvisoryArgv0(launcher, interpreter, windowed string) string {
	module := r.Factory.Module()
	if module == "" || windowed == "" || sameFile(module, launcher) {
		return interpreter
	}

	candidate := locate.Sibling(module, windowed)
	if r.exists(candidate) {
		return candidate
	}
	return interpreter
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
