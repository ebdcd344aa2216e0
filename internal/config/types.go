// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/invowk/shimrun/internal/cmdline"
	"github.com/invowk/shimrun/internal/platform"
)

const (
	// StrategyDetached starts the interpreter and exits without waiting.
	StrategyDetached Strategy = "detached"
	// StrategyForward runs the interpreter and forwards its exit code.
	StrategyForward Strategy = "forward"
	// StrategyEmbedded runs the script in the interpreter linked into the launcher.
	StrategyEmbedded Strategy = "embedded"

	// NotifyAuto shows a dialog on Windows and writes to the console elsewhere.
	NotifyAuto NotifyMode = "auto"
	// NotifyDialog always uses a message box where the platform has one.
	NotifyDialog NotifyMode = "dialog"
	// NotifyConsole always writes to stderr.
	NotifyConsole NotifyMode = "console"

	// LogLevelDebug logs every launch step.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidStrategy is returned when a Strategy value is not recognized.
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrInvalidNotifyMode is returned when a NotifyMode value is not recognized.
	ErrInvalidNotifyMode = errors.New("invalid notify mode")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidSiblingName is the sentinel error wrapped by InvalidSiblingNameError.
	ErrInvalidSiblingName = errors.New("invalid sibling file name")
	// ErrInvalidExitCode is returned when spawn_failure_exit_code is outside 0-255.
	ErrInvalidExitCode = errors.New("invalid exit code")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Strategy selects how the launcher hands off to the interpreter.
	Strategy string

	// InvalidStrategyError is returned when a Strategy value is not recognized.
	// It wraps ErrInvalidStrategy for errors.Is() compatibility.
	InvalidStrategyError struct {
		Value Strategy
	}

	// NotifyMode selects how failures are reported to the user.
	NotifyMode string

	// InvalidNotifyModeError is returned when a NotifyMode value is not recognized.
	InvalidNotifyModeError struct {
		Value NotifyMode
	}

	// LogLevel is the minimum level written by the launcher's logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// SiblingName is the bare file name of a file living next to the launcher.
	// It must be non-empty and must not contain path separators.
	SiblingName string

	// InvalidSiblingNameError is returned when a SiblingName is not a bare file name.
	InvalidSiblingNameError struct {
		Field  string
		Value  SiblingName
		Reason string
	}

	// InvalidExitCodeError is returned when spawn_failure_exit_code is outside 0-255.
	InvalidExitCodeError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LogConfig configures the launcher's own logging.
	LogConfig struct {
		// Level is the minimum level written (default: warn)
		Level LogLevel `json:"level" mapstructure:"level"`
		// File redirects the log to a file, relative to the launcher when not absolute
		File string `json:"file" mapstructure:"file"`
	}

	// Config holds the launcher configuration.
	Config struct {
		// Interpreter is the interpreter binary next to the launcher
		Interpreter SiblingName `json:"interpreter" mapstructure:"interpreter"`
		// WindowedInterpreter is the GUI-subsystem interpreter used for the embedded argv[0]
		WindowedInterpreter SiblingName `json:"windowed_interpreter" mapstructure:"windowed_interpreter"`
		// Script is the script file next to the launcher
		Script SiblingName `json:"script" mapstructure:"script"`
		// InterpreterArgs are interpreter switches placed before "--"
		InterpreterArgs []string `json:"interpreter_args" mapstructure:"interpreter_args"`
		// Strategy selects detached, forward or embedded launching
		Strategy Strategy `json:"strategy" mapstructure:"strategy"`
		// ReplaceProcess makes the forward strategy exec(2) the interpreter where supported
		ReplaceProcess bool `json:"replace_process" mapstructure:"replace_process"`
		// SpawnFailureExitCode is the exit code when the interpreter cannot be started
		SpawnFailureExitCode int `json:"spawn_failure_exit_code" mapstructure:"spawn_failure_exit_code"`
		// MaxCommandLine bounds the rebuilt command line; 0 disables the check
		MaxCommandLine int `json:"max_command_line" mapstructure:"max_command_line"`
		// Language is a BCP 47 tag for notifications; empty means detect
		Language string `json:"language" mapstructure:"language"`
		// Notify selects dialog or console notifications
		Notify NotifyMode `json:"notify" mapstructure:"notify"`
		// Log configures logging
		Log LogConfig `json:"log" mapstructure:"log"`
	}
)

// DefaultConfig returns the default configuration for the running platform.
func DefaultConfig() *Config {
	return DefaultConfigFor(runtime.GOOS)
}

// DefaultConfigFor returns the default configuration for goos.
func DefaultConfigFor(goos string) *Config {
	strategy := StrategyForward
	if goos == platform.Windows {
		strategy = StrategyDetached
	}

	return &Config{
		Interpreter:          SiblingName(platform.ExecutableName(goos, "perl")),
		WindowedInterpreter:  SiblingName(platform.ExecutableName(goos, "wperl")),
		Script:               "main",
		InterpreterArgs:      []string{},
		Strategy:             strategy,
		ReplaceProcess:       false,
		SpawnFailureExitCode: 0,
		MaxCommandLine:       cmdline.DefaultMaxLength,
		Language:             "",
		Notify:               NotifyAuto,
		Log: LogConfig{
			Level: LogLevelWarn,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, field := range []struct {
		name  string
		value SiblingName
	}{
		{"interpreter", c.Interpreter},
		{"windowed_interpreter", c.WindowedInterpreter},
		{"script", c.Script},
	} {
		if err := field.value.validate(field.name); err != nil {
			errs = append(errs, err)
		}
	}
	if valid, fieldErrs := c.Strategy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Notify.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.SpawnFailureExitCode < 0 || c.SpawnFailureExitCode > 255 {
		errs = append(errs, &InvalidExitCodeError{Value: c.SpawnFailureExitCode})
	}
	if c.MaxCommandLine < 0 {
		errs = append(errs, fmt.Errorf("max_command_line must not be negative, got %d", c.MaxCommandLine))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the SiblingName.
func (n SiblingName) String() string { return string(n) }

// validate reports why n cannot name a sibling file, or nil. The windowed
// interpreter may be empty, which disables argv[0] substitution.
func (n SiblingName) validate(field string) error {
	switch {
	case strings.TrimSpace(string(n)) == "":
		if field == "windowed_interpreter" && n == "" {
			return nil
		}
		return &InvalidSiblingNameError{Field: field, Value: n, Reason: "must not be empty"}
	case platform.HasPathSeparator(string(n)):
		return &InvalidSiblingNameError{Field: field, Value: n, Reason: "must not contain a path separator"}
	case n == "." || n == "..":
		return &InvalidSiblingNameError{Field: field, Value: n, Reason: "must name a file"}
	case platform.IsWindowsReservedName(string(n)):
		return &InvalidSiblingNameError{Field: field, Value: n, Reason: "is a reserved device name on Windows"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidSiblingNameError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidSiblingName for errors.Is() compatibility.
func (e *InvalidSiblingNameError) Unwrap() error { return ErrInvalidSiblingName }

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("spawn_failure_exit_code %d is outside 0-255", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// String returns the string representation of the Strategy.
func (s Strategy) String() string { return string(s) }

// IsValid returns whether the Strategy is one of the defined strategies.
func (s Strategy) IsValid() (bool, []error) {
	switch s {
	case StrategyDetached, StrategyForward, StrategyEmbedded:
		return true, nil
	default:
		return false, []error{&InvalidStrategyError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid strategy %q (valid: %s, %s, %s)", e.Value, StrategyDetached, StrategyForward, StrategyEmbedded)
}

// Unwrap returns ErrInvalidStrategy for errors.Is() compatibility.
func (e *InvalidStrategyError) Unwrap() error { return ErrInvalidStrategy }

// String returns the string representation of the NotifyMode.
func (m NotifyMode) String() string { return string(m) }

// IsValid returns whether the NotifyMode is one of the defined modes.
func (m NotifyMode) IsValid() (bool, []error) {
	switch m {
	case NotifyAuto, NotifyDialog, NotifyConsole:
		return true, nil
	default:
		return false, []error{&InvalidNotifyModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidNotifyModeError) Error() string {
	return fmt.Sprintf("invalid notify mode %q (valid: %s, %s, %s)", e.Value, NotifyAuto, NotifyDialog, NotifyConsole)
}

// Unwrap returns ErrInvalidNotifyMode for errors.Is() compatibility.
func (e *InvalidNotifyModeError) Unwrap() error { return ErrInvalidNotifyMode }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }
