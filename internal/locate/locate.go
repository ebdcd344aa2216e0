// SPDX-License-Identifier: MPL-2.0

package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/invowk/shimrun/internal/platform"

	"github.com/spf13/afero"
)

// Role values identify which sibling file a MissingFileError refers to.
const (
	RoleInterpreter Role = "interpreter"
	RoleScript      Role = "script"
)

var (
	// ErrMissingInterpreter is wrapped by MissingFileError when the interpreter binary is absent.
	ErrMissingInterpreter = errors.New("interpreter not found")
	// ErrMissingScript is wrapped by MissingFileError when the script file is absent.
	ErrMissingScript = errors.New("script not found")
	// ErrPathTooLong is the sentinel error wrapped by PathTooLongError.
	ErrPathTooLong = errors.New("path too long")
)

type (
	// Role names a sibling file.
	Role string

	// Names holds the bare file names of the sibling files.
	Names struct {
		// Interpreter is the interpreter binary name, e.g. "perl.exe".
		Interpreter string
		// Script is the script file name. It has no extension.
		Script string
	}

	// Paths is the result of a successful resolution.
	Paths struct {
		// Executable is the launcher's own path.
		Executable string
		// Dir is the launcher's directory including the trailing separator.
		Dir string
		// Interpreter is Dir + Names.Interpreter.
		Interpreter string
		// Script is Dir + Names.Script.
		Script string
	}

	// MissingFileError is returned when a sibling file does not exist.
	MissingFileError struct {
		Role Role
		Path string
	}

	// PathTooLongError is returned when a composed path exceeds MaxPathLength.
	PathTooLongError struct {
		Path  string
		Limit int
	}

	// Resolver derives and probes sibling paths.
	Resolver struct {
		fs    afero.Fs
		names Names
		limit int
	}
)

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Role, e.Path)
}

// Unwrap returns the role's sentinel so callers can use errors.Is.
func (e *MissingFileError) Unwrap() error {
	if e.Role == RoleInterpreter {
		return ErrMissingInterpreter
	}
	return ErrMissingScript
}

// Error implements the error interface.
func (e *PathTooLongError) Error() string {
	return fmt.Sprintf("path is %d characters long, limit is %d: %s", len(e.Path), e.Limit, e.Path)
}

// Unwrap returns ErrPathTooLong for errors.Is() compatibility.
func (e *PathTooLongError) Unwrap() error { return ErrPathTooLong }

// MaxPathLength returns the longest path the launcher composes on goos.
func MaxPathLength(goos string) int {
	if goos == platform.Windows {
		return 32767
	}
	return 4096
}

// ExecutableDir returns the directory part of path, keeping the trailing
// separator. Both '\' and '/' count as separators. The scan runs backward from
// the end and stops at index 0; a path without any separator yields "".
func ExecutableDir(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '\\' && path[i] != '/' {
		i--
	}
	return path[:i+1]
}

// Executable returns the launcher's own path with symlinks resolved.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

// NewResolver creates a Resolver probing fs for the given names.
func NewResolver(fs afero.Fs, names Names) *Resolver {
	return &Resolver{fs: fs, names: names, limit: MaxPathLength(runtime.GOOS)}
}

// WithLimit overrides the path length limit. A limit <= 0 disables the check.
func (r *Resolver) WithLimit(limit int) *Resolver {
	r.limit = limit
	return r
}

// Resolve builds the interpreter and script paths next to executable.
//
// When needInterpreter is set the interpreter is probed first and, if it is
// missing, Resolve returns without touching the script.
func (r *Resolver) Resolve(executable string, needInterpreter bool) (Paths, error) {
	dir := ExecutableDir(executable)
	paths := Paths{
		Executable:  executable,
		Dir:         dir,
		Interpreter: dir + r.names.Interpreter,
		Script:      dir + r.names.Script,
	}

	if needInterpreter {
		if err := r.check(paths.Interpreter); err != nil {
			return paths, err
		}
		if !r.exists(paths.Interpreter) {
			return paths, &MissingFileError{Role: RoleInterpreter, Path: paths.Interpreter}
		}
	}

	if err := r.check(paths.Script); err != nil {
		return paths, err
	}
	if !r.exists(paths.Script) {
		return paths, &MissingFileError{Role: RoleScript, Path: paths.Script}
	}

	return paths, nil
}

// Sibling returns the path of name in the directory containing path.
func Sibling(path, name string) string {
	return ExecutableDir(path) + name
}

func (r *Resolver) check(path string) error {
	if r.limit > 0 && len(path) > r.limit {
		return &PathTooLongError{Path: path, Limit: r.limit}
	}
	return nil
}

// exists mirrors a file attribute probe: any entry that can be stat'ed counts.
func (r *Resolver) exists(path string) bool {
	_, err := r.fs.Stat(path)
	return err == nil
}
