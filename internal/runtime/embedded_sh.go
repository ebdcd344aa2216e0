// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrMalformedArgv is returned when an argument vector lacks the "--" separator or the script.
	ErrMalformedArgv = errors.New("argument vector has no script after \"--\"")
	// ErrNotParsed is returned by Run when Parse has not succeeded.
	ErrNotParsed = errors.New("no script parsed")
	// ErrEngineClosed is returned when an engine is used after Close.
	ErrEngineClosed = errors.New("interpreter already destructed")
)

type (
	// ShellEngineFactory builds POSIX shell interpreters linked into the launcher.
	ShellEngineFactory struct {
		fs afero.Fs
	}

	shellEngine struct {
		fs     afero.Fs
		runner *interp.Runner
		prog   *syntax.File
		closed bool
	}
)

// NewShellEngineFactory creates a factory reading scripts from fs.
func NewShellEngineFactory(fs afero.Fs) *ShellEngineFactory {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ShellEngineFactory{fs: fs}
}

// New constructs a runner bound to the given streams.
func (f *ShellEngineFactory) New(io IOContext) (Engine, error) {
	runner, err := interp.New(
		interp.StdIO(io.Stdin, io.Stdout, io.Stderr),
		interp.ExecHandlers(traceExec),
	)
	if err != nil {
		return nil, err
	}
	return &shellEngine{fs: f.fs, runner: runner}, nil
}

// Module returns "": the shell runtime is compiled into the launcher.
func (f *ShellEngineFactory) Module() string {
	return ""
}

// Parse reads and parses the script, then installs switches, positional
// parameters and environment on the runner.
func (e *shellEngine) Parse(argv []string, env []string) error {
	if e.closed {
		return ErrEngineClosed
	}

	sep := slices.Index(argv, ArgSeparator)
	if sep < 1 || sep+1 >= len(argv) {
		return ErrMalformedArgv
	}
	switches, script, args := argv[1:sep], argv[sep+1], argv[sep+2:]

	src, err := afero.ReadFile(e.fs, script)
	if err != nil {
		return fmt.Errorf("read %s: %w", script, err)
	}

	prog, err := syntax.NewParser().Parse(bytes.NewReader(src), script)
	if err != nil {
		return err
	}

	// Options applied to an existing runner take effect on its first Run.
	params := append(slices.Clone(switches), ArgSeparator)
	params = append(params, args...)
	opts := []interp.RunnerOption{
		interp.Params(params...),
		interp.Env(expand.ListEnviron(env...)),
	}
	for _, opt := range opts {
		if err := opt(e.runner); err != nil {
			return err
		}
	}

	e.prog = prog
	return nil
}

// Run executes the parsed script.
func (e *shellEngine) Run(ctx context.Context) (ExitCode, error) {
	if e.closed {
		return 1, ErrEngineClosed
	}
	if e.prog == nil {
		return 1, ErrNotParsed
	}

	err := e.runner.Run(ctx, e.prog)
	if err == nil {
		return 0, nil
	}

	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		return ExitCode(exitStatus), nil
	}
	return 1, err
}

// Close drops the parsed program and resets the runner state.
func (e *shellEngine) Close() error {
	if e.closed {
		return ErrEngineClosed
	}
	e.closed = true
	e.prog = nil
	e.runner.Reset()
	return nil
}

// traceExec logs each external command before delegating to the default handler.
func traceExec(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		slog.Debug("embedded interpreter exec", "args", args)
		return next(ctx, args)
	}
}
