// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/invowk/shimrun/internal/testutil"
)

const echoArgsInterpreter = `printf '%s\n' "$@"
exit 3`

func TestForwardRuntime_ForwardsArgvAndExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		switches []string
		args     []string
		want     []string
	}{
		{
			name: "no arguments",
			want: []string{"--", "SCRIPT"},
		},
		{
			name: "arguments keep their boundaries",
			args: []string{"--foo", "b c"},
			want: []string{"--", "SCRIPT", "--foo", "b c"},
		},
		{
			name:     "switches precede the separator",
			switches: []string{"-w"},
			args:     []string{"x"},
			want:     []string{"-w", "--", "SCRIPT", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.WriteInterpreter(t, dir, "perl", echoArgsInterpreter)

			var stdout bytes.Buffer
			ctx := &ExecutionContext{
				Paths:           testPaths(dir),
				Args:            tt.args,
				InterpreterArgs: tt.switches,
				Env:             os.Environ(),
				IO:              IOContext{Stdout: &stdout, Stderr: &bytes.Buffer{}},
			}

			result := NewForwardRuntime(false).Execute(ctx)
			if result.Error != nil {
				t.Fatalf("Execute() error = %v", result.Error)
			}
			if result.ExitCode != 3 {
				t.Errorf("Execute() exit code = %d, want 3", result.ExitCode)
			}

			want := strings.ReplaceAll(strings.Join(tt.want, "\n")+"\n", "SCRIPT", ctx.Paths.Script)
			if stdout.String() != want {
				t.Errorf("interpreter received %q, want %q", stdout.String(), want)
			}
		})
	}
}

func TestForwardRuntime_SpawnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.WriteInterpreter(t, dir, "perl", "exit 0")
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := &ExecutionContext{Paths: testPaths(dir), Env: os.Environ()}
	result := NewForwardRuntime(false).Execute(ctx)
	if !errors.Is(result.Error, ErrSpawnFailed) {
		t.Errorf("Execute() error = %v, want ErrSpawnFailed", result.Error)
	}
}

func TestForwardRuntime_ReplaceProcess(t *testing.T) {
	t.Parallel()

	t.Run("unsupported platform falls back to spawn", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		testutil.WriteInterpreter(t, dir, "perl", echoArgsInterpreter)

		var replacedArgv []string
		rt := NewForwardRuntime(true)
		rt.replace = func(_ string, argv []string, _ []string) error {
			replacedArgv = argv
			return ErrExecNotSupported
		}

		ctx := &ExecutionContext{
			Paths: testPaths(dir),
			Env:   os.Environ(),
			IO:    IOContext{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}},
		}
		result := rt.Execute(ctx)
		if result.Error != nil || result.ExitCode != 3 {
			t.Errorf("Execute() = (%d, %v), want (3, nil)", result.ExitCode, result.Error)
		}
		if len(replacedArgv) != 3 || replacedArgv[1] != ArgSeparator {
			t.Errorf("replacement argv = %q", replacedArgv)
		}
	})

	t.Run("replacement failure is a spawn failure", func(t *testing.T) {
		t.Parallel()

		rt := NewForwardRuntime(true)
		rt.replace = func(string, []string, []string) error {
			return errors.New("exec format error")
		}

		result := rt.Execute(&ExecutionContext{Paths: testPaths("/nonexistent")})
		if !errors.Is(result.Error, ErrSpawnFailed) {
			t.Errorf("Execute() error = %v, want ErrSpawnFailed", result.Error)
		}
	})
}
