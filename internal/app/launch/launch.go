// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"golang.org/x/text/language"

	"github.com/invowk/shimrun/internal/cmdline"
	"github.com/invowk/shimrun/internal/config"
	"github.com/invowk/shimrun/internal/issue"
	"github.com/invowk/shimrun/internal/locate"
	"github.com/invowk/shimrun/internal/notify"
	"github.com/invowk/shimrun/internal/runtime"
)

// Launcher holds the collaborators of one invocation. Zero-valued optional
// fields fall back to the real process state.
type Launcher struct {
	// Config is the effective configuration. Required.
	Config *config.Config
	// Registry maps strategies to runtimes. Required.
	Registry *runtime.Registry
	// Notifier reports failures. Required.
	Notifier notify.Notifier
	// Catalog provides localized messages. Nil means issue.NewCatalog().
	Catalog *issue.Catalog
	// Language selects the catalogue language. Zero means English.
	Language language.Tag
	// Fs is probed for the sibling files. Nil means the OS file system.
	Fs afero.Fs
	// Executable returns the launcher's own path. Nil means locate.Executable.
	Executable func() (string, error)
	// CommandLine returns the raw process command line. Nil means cmdline.Current.
	CommandLine func() string
	// Env is the interpreter environment. Nil means os.Environ().
	Env []string
	// IO holds the interpreter's standard streams. Nil streams mean the process's own.
	IO runtime.IOContext
	// PathLimit overrides locate.MaxPathLength when positive.
	PathLimit int
}

// Run executes the invocation and returns the launcher's exit code.
// args are the launcher's arguments without argv[0].
func (l *Launcher) Run(ctx context.Context, args []string) runtime.ExitCode {
	l.applyDefaults()
	cfg := l.Config
	strategy := runtime.RuntimeType(cfg.Strategy)

	rt, err := l.Registry.Get(strategy)
	if err != nil {
		slog.Error("no runtime for strategy", "strategy", strategy, "error", err)
		return 1
	}

	executable, err := l.Executable()
	if err != nil {
		slog.Error("cannot determine launcher path", "error", err)
		return 1
	}

	// ResolvePaths
	resolver := locate.NewResolver(l.Fs, locate.Names{
		Interpreter: cfg.Interpreter.String(),
		Script:      cfg.Script.String(),
	})
	if l.PathLimit > 0 {
		resolver.WithLimit(l.PathLimit)
	}
	paths, err := resolver.Resolve(executable, rt.NeedsInterpreter())
	if err != nil {
		return l.fail(err, 1)
	}
	slog.Debug("paths resolved", "interpreter", paths.Interpreter, "script", paths.Script, "strategy", strategy)

	// BuildArguments
	ectx := &runtime.ExecutionContext{
		Context:             ctx,
		Paths:               paths,
		Args:                args,
		InterpreterArgs:     cfg.InterpreterArgs,
		WindowedInterpreter: cfg.WindowedInterpreter.String(),
		Env:                 l.Env,
		IO:                  l.IO,
	}
	if strategy == runtime.RuntimeTypeDetached {
		tail := cmdline.SkipProgramToken(l.CommandLine())
		line, err := cmdline.Rebuild(paths.Interpreter, paths.Script, tail, cfg.MaxCommandLine)
		if err != nil {
			return l.fail(err, 1)
		}
		ectx.CommandLine = line
		slog.Debug("command line rebuilt", "command_line", line)
	}

	// Launch
	result := l.Registry.Execute(strategy, ectx)
	if result.Error != nil {
		return l.fail(result.Error, result.ExitCode)
	}
	slog.Debug("launch finished", "exit_code", result.ExitCode)
	return result.ExitCode
}

// fail notifies the user about err and returns the matching exit code.
// Errors without a notification exit with code, or 1 when code is 0.
func (l *Launcher) fail(err error, code runtime.ExitCode) runtime.ExitCode {
	slog.Debug("launch failed", "error", err)

	var (
		missing  *locate.MissingFileError
		tooLong  *locate.PathTooLongError
		lineLong *cmdline.TooLongError
		spawn    *runtime.SpawnError
	)
	switch {
	case errors.As(err, &missing) && missing.Role == locate.RoleInterpreter:
		l.notify(issue.MissingInterpreterId, missing.Path)
		return 1
	case errors.As(err, &missing):
		l.notify(issue.MissingScriptId, missing.Path)
		return 1
	case errors.As(err, &tooLong):
		l.notify(issue.PathTooLongId, tooLong.Path)
		return 1
	case errors.As(err, &lineLong):
		l.notify(issue.CommandLineTooLongId, strconv.Itoa(lineLong.Limit))
		return 1
	case errors.As(err, &spawn):
		l.notify(issue.SpawnFailedId, spawn.Path)
		return runtime.ExitCode(l.Config.SpawnFailureExitCode)
	case errors.Is(err, runtime.ErrAllocationFailed):
		l.send(notify.Notification{
			Title:   l.Catalog.Title(l.Language),
			Message: issue.AllocationFailedMessage,
			Plain:   true,
		})
		return 1
	default:
		slog.Error("launch failed", "error", err)
		if code.IsSuccess() {
			return 1
		}
		return code
	}
}

func (l *Launcher) notify(id issue.Id, args ...any) {
	l.send(notify.Notification{
		Title:    l.Catalog.Title(l.Language),
		Message:  l.Catalog.Message(l.Language, id, args...),
		Markdown: l.Catalog.Markdown(l.Language, id, args...),
	})
}

func (l *Launcher) send(n notify.Notification) {
	if err := l.Notifier.Notify(n); err != nil {
		slog.Warn("failed to notify user", "error", err, "message", n.Message)
	}
}

func (l *Launcher) applyDefaults() {
	if l.Catalog == nil {
		l.Catalog = issue.NewCatalog()
	}
	if l.Language == language.Und {
		l.Language = language.English
	}
	if l.Fs == nil {
		l.Fs = afero.NewOsFs()
	}
	if l.Executable == nil {
		l.Executable = locate.Executable
	}
	if l.CommandLine == nil {
		l.CommandLine = cmdline.Current
	}
	if l.Env == nil {
		l.Env = os.Environ()
	}
	if l.IO.Stdin == nil {
		l.IO.Stdin = os.Stdin
	}
	if l.IO.Stdout == nil {
		l.IO.Stdout = os.Stdout
	}
	if l.IO.Stderr == nil {
		l.IO.Stderr = os.Stderr
	}
}
