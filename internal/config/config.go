// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/invowk/shimrun/internal/cueutil"
	"github.com/invowk/shimrun/internal/issue"
	"github.com/invowk/shimrun/internal/locate"
)

const (
	// AppName is the application name.
	AppName = "shimrun"
	// EnvPrefix prefixes environment overrides, e.g. SHIMRUN_STRATEGY.
	EnvPrefix = "SHIMRUN"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// FilePath returns the configuration file belonging to the launcher at
// executable: same directory, same stem, ".cue" extension.
func FilePath(executable string) string {
	dir := locate.ExecutableDir(executable)
	name := executable[len(dir):]
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		name = AppName
	}
	return dir + name + "." + ConfigFileExt
}

// loadWithOptions reads defaults, the optional file and the environment into
// a Config. The returned path is empty when no file was found.
func loadWithOptions(ctx context.Context, fsys afero.Fs, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path == "" && opts.Executable != "" {
		path = FilePath(opts.Executable)
	}

	resolvedPath := ""
	if path != "" {
		err := loadCUEIntoViper(fsys, v, path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && opts.ConfigFilePath == "":
			// No sibling file: defaults and environment only.
		case err != nil:
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		default:
			resolvedPath = path
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so validate the merged result.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables as well as the file").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("interpreter", defaults.Interpreter)
	v.SetDefault("windowed_interpreter", defaults.WindowedInterpreter)
	v.SetDefault("script", defaults.Script)
	v.SetDefault("interpreter_args", defaults.InterpreterArgs)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("replace_process", defaults.ReplaceProcess)
	v.SetDefault("spawn_failure_exit_code", defaults.SpawnFailureExitCode)
	v.SetDefault("max_command_line", defaults.MaxCommandLine)
	v.SetDefault("language", defaults.Language)
	v.SetDefault("notify", defaults.Notify)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
}

// loadCUEIntoViper validates the CUE file at path against #Config and merges it into v.
func loadCUEIntoViper(fsys afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path)
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}
