// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/invowk/shimrun/internal/config"
	"github.com/invowk/shimrun/internal/issue"
	"github.com/invowk/shimrun/internal/locate"
)

// newLogger returns an slog logger writing to w through a charmbracelet/log handler.
func newLogger(w io.Writer, level config.LogLevel) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		Level:           logLevel(level),
		ReportTimestamp: true,
	})
	return slog.New(handler)
}

func logLevel(level config.LogLevel) log.Level {
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelInfo:
		return log.InfoLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// setupLogging installs the default logger for cfg. The returned closer
// releases the log file, if any; it is never nil.
func setupLogging(fsys afero.Fs, cfg *config.Config, executable string) io.Closer {
	if cfg.Log.File == "" {
		slog.SetDefault(newLogger(os.Stderr, cfg.Log.Level))
		return io.NopCloser(nil)
	}

	f, err := openLogFile(fsys, executable, cfg.Log.File)
	if err != nil {
		slog.SetDefault(newLogger(os.Stderr, cfg.Log.Level))
		slog.Warn("logging to stderr", "error", err)
		return io.NopCloser(nil)
	}
	slog.SetDefault(newLogger(f, cfg.Log.Level))
	return f
}

// openLogFile opens path for appending. A relative path is taken from the
// launcher's directory.
func openLogFile(fsys afero.Fs, executable, path string) (afero.File, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(locate.ExecutableDir(executable), path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, issue.WrapWithContext(err, "create log directory", filepath.Dir(path))
	}
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, issue.WrapWithContext(err, "open log file", path)
	}
	return f, nil
}
