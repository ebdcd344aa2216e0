// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"

	"github.com/invowk/shimrun/internal/locate"
)

// Runtime type constants for the available launch strategies.
const (
	RuntimeTypeDetached RuntimeType = "detached"
	RuntimeTypeForward  RuntimeType = "forward"
	RuntimeTypeEmbedded RuntimeType = "embedded"
)

// ArgSeparator ends the interpreter's own switches in a forwarded argv.
const ArgSeparator = "--"

var (
	// ErrSpawnFailed is wrapped by SpawnError when the interpreter process could not be started.
	ErrSpawnFailed = errors.New("failed to start interpreter")
	// ErrAllocationFailed is returned when the embedded interpreter could not be created.
	ErrAllocationFailed = errors.New("can't allocate interpreter")
	// ErrInvalidRuntimeType is the sentinel error wrapped by InvalidRuntimeTypeError.
	ErrInvalidRuntimeType = errors.New("invalid runtime type")
)

type (
	// IOContext holds the standard streams handed to the interpreter.
	IOContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExecutionContext contains all information needed to launch the script.
	ExecutionContext struct {
		// Context is only consulted by the embedded runtime.
		Context context.Context
		// Paths are the resolved sibling paths.
		Paths locate.Paths
		// Args are the launcher's own arguments, argv[0] excluded.
		Args []string
		// CommandLine is the rebuilt raw command line used by the detached runtime.
		CommandLine string
		// InterpreterArgs are interpreter switches placed before ArgSeparator.
		InterpreterArgs []string
		// WindowedInterpreter is the windowed interpreter name used for the
		// embedded runtime's advisory argv[0].
		WindowedInterpreter string
		// Env is the environment handed to the interpreter, usually os.Environ().
		Env []string
		// IO holds the standard streams.
		IO IOContext
	}

	// Result contains the result of a launch.
	Result struct {
		// ExitCode is the exit code the launcher should terminate with.
		ExitCode ExitCode
		// Error contains any error that occurred.
		Error error
	}

	// Runtime defines the interface of a launch strategy.
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Available returns whether this runtime can run on the current system
		Available() bool
		// NeedsInterpreter reports whether the interpreter binary must exist on disk
		NeedsInterpreter() bool
		// Validate checks if the context can be launched with this runtime
		Validate(ctx *ExecutionContext) error
		// Execute launches the script
		Execute(ctx *ExecutionContext) *Result
	}

	// SpawnError is returned when the interpreter process could not be started.
	// It matches both ErrSpawnFailed and the underlying OS error with errors.Is.
	SpawnError struct {
		Path string
		Err  error
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// InvalidRuntimeTypeError is returned when a RuntimeType value is not registered.
	InvalidRuntimeTypeError struct {
		Value RuntimeType
	}

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrSpawnFailed and the underlying cause.
func (e *SpawnError) Unwrap() []error { return []error{ErrSpawnFailed, e.Err} }

// Error implements the error interface.
func (e *InvalidRuntimeTypeError) Error() string {
	return fmt.Sprintf("runtime %q not registered", e.Value)
}

// Unwrap returns ErrInvalidRuntimeType for errors.Is() compatibility.
func (e *InvalidRuntimeTypeError) Unwrap() error { return ErrInvalidRuntimeType }

// String returns the string representation of the RuntimeType.
func (t RuntimeType) String() string { return string(t) }

// NewExecutionContext creates an execution context inheriting the current
// process's environment and standard streams.
func NewExecutionContext(ctx context.Context, paths locate.Paths, args []string) *ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ExecutionContext{
		Context: ctx,
		Paths:   paths,
		Args:    args,
		Env:     os.Environ(),
		IO: IOContext{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
	}
}

// ArgumentVector returns [interpreter, switches..., "--", script, args...].
func ArgumentVector(interpreter string, switches []string, script string, args []string) []string {
	argv := make([]string, 0, len(switches)+len(args)+3)
	argv = append(argv, interpreter)
	argv = append(argv, switches...)
	argv = append(argv, ArgSeparator, script)
	return append(argv, args...)
}

// Success returns true if the launch succeeded with exit code 0.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, &InvalidRuntimeTypeError{Value: typ}
	}
	return rt, nil
}

// Available returns all available runtimes, sorted by name.
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	slices.Sort(types)
	return types
}

// Execute validates and runs ctx with the runtime registered for typ.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if !rt.Available() {
		return NewErrorResult(1, fmt.Errorf("runtime '%s' is not available on this system", rt.Name()))
	}

	if err := rt.Validate(ctx); err != nil {
		return NewErrorResult(1, err)
	}

	return rt.Execute(ctx)
}

// exitCodeOf maps a finished process's error to an exit code. Codes outside
// 0-255 (signals, Windows NTSTATUS values) collapse to 1. The returned error is
// non-nil only when the process did not report an exit status at all.
func exitCodeOf(err error) (ExitCode, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := ExitCode(exitErr.ExitCode())
		if valid, _ := code.IsValid(); !valid {
			slog.Debug("interpreter exit status out of range", "status", exitErr.String())
			return 1, nil
		}
		return code, nil
	}

	return 1, err
}
