// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/invowk/shimrun/internal/app/launch"
	"github.com/invowk/shimrun/internal/config"
	"github.com/invowk/shimrun/internal/issue"
	"github.com/invowk/shimrun/internal/locate"
	"github.com/invowk/shimrun/internal/notify"
	"github.com/invowk/shimrun/internal/runtime"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// rootCmd passes every argument to the script; nothing is parsed here.
	rootCmd = &cobra.Command{
		Use:                config.AppName + " [args...]",
		Short:              "Launch the script next to this executable",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE:               runLauncher,
	}
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with the launcher's exit code.
// This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
		fang.WithErrorHandler(handleError),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError stays quiet for plain exit codes; failures were already
// reported to the user by the launcher.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func runLauncher(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fsys := afero.NewOsFs()

	executable, exeErr := locate.Executable()
	cfg, cfgErr := loadConfig(ctx, fsys, executable)

	closer := setupLogging(fsys, cfg, executable)
	defer closer.Close()

	if exeErr != nil {
		slog.Debug("launcher path unknown, configuration file skipped", "error", exeErr)
	}
	if cfgErr != nil {
		slog.Warn("using default configuration", "error", formatErrorForDisplay(cfgErr, cfg.Log.Level == config.LogLevelDebug))
	}

	l := &launch.Launcher{
		Config:   cfg,
		Registry: runtime.BuildRegistry(runtime.BuildRegistryOptions{Config: cfg, Fs: fsys}),
		Notifier: notify.New(cfg.Notify, cmd.ErrOrStderr()),
		Language: issue.ResolveLanguage(cfg.Language),
		Fs:       fsys,
	}
	if exeErr == nil {
		l.Executable = func() (string, error) { return executable, nil }
	}

	if code := l.Run(ctx, args); !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}

// loadConfig returns the effective configuration. On error it returns the
// defaults together with the error, so the launch always proceeds.
func loadConfig(ctx context.Context, fsys afero.Fs, executable string) (*config.Config, error) {
	cfg, err := config.NewProvider(fsys).Load(ctx, config.LoadOptions{Executable: executable})
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
