// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"testing"

	"github.com/invowk/shimrun/internal/locate"
)

type stubRuntime struct {
	name      string
	available bool
	validErr  error
	executed  bool
}

func (s *stubRuntime) Name() string                       { return s.name }
func (s *stubRuntime) Available() bool                    { return s.available }
func (s *stubRuntime) NeedsInterpreter() bool             { return true }
func (s *stubRuntime) Validate(_ *ExecutionContext) error { return s.validErr }
func (s *stubRuntime) Execute(_ *ExecutionContext) *Result {
	s.executed = true
	return NewExitCodeResult(5)
}

func testPaths(dir string) locate.Paths {
	return locate.Paths{
		Executable:  filepath.Join(dir, "shimrun"),
		Dir:         dir + string(filepath.Separator),
		Interpreter: filepath.Join(dir, "perl"),
		Script:      filepath.Join(dir, "main"),
	}
}

func TestArgumentVector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		switches []string
		args     []string
		want     []string
	}{
		{
			name: "no arguments",
			want: []string{"/d/perl", "--", "/d/main"},
		},
		{
			name: "arguments follow the script",
			args: []string{"--foo", "b c"},
			want: []string{"/d/perl", "--", "/d/main", "--foo", "b c"},
		},
		{
			name:     "switches precede the separator",
			switches: []string{"-w", "-T"},
			args:     []string{"x"},
			want:     []string{"/d/perl", "-w", "-T", "--", "/d/main", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ArgumentVector("/d/perl", tt.switches, "/d/main", tt.args)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ArgumentVector() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpawnErrorMatchesBothCauses(t *testing.T) {
	t.Parallel()

	err := error(&SpawnError{Path: "/d/perl", Err: fs.ErrNotExist})

	if !errors.Is(err, ErrSpawnFailed) {
		t.Error("SpawnError should match ErrSpawnFailed")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("SpawnError should match its cause")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	forward := &stubRuntime{name: "forward", available: true}
	registry.Register(RuntimeTypeForward, forward)
	registry.Register(RuntimeTypeEmbedded, &stubRuntime{name: "embedded"})

	t.Run("get registered", func(t *testing.T) {
		t.Parallel()

		rt, err := registry.Get(RuntimeTypeForward)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if rt.Name() != "forward" {
			t.Errorf("Get() name = %q, want forward", rt.Name())
		}
	})

	t.Run("get unregistered", func(t *testing.T) {
		t.Parallel()

		_, err := registry.Get(RuntimeTypeDetached)
		if !errors.Is(err, ErrInvalidRuntimeType) {
			t.Errorf("Get() error = %v, want ErrInvalidRuntimeType", err)
		}
	})

	t.Run("available skips unavailable runtimes", func(t *testing.T) {
		t.Parallel()

		got := registry.Available()
		if !slices.Equal(got, []RuntimeType{RuntimeTypeForward}) {
			t.Errorf("Available() = %v, want [forward]", got)
		}
	})
}

func TestRegistryExecute(t *testing.T) {
	t.Parallel()

	validationErr := errors.New("not resolved")
	tests := []struct {
		name         string
		rt           *stubRuntime
		wantCode     ExitCode
		wantExecuted bool
	}{
		{name: "runs valid runtime", rt: &stubRuntime{name: "ok", available: true}, wantCode: 5, wantExecuted: true},
		{name: "unavailable runtime", rt: &stubRuntime{name: "off"}, wantCode: 1},
		{name: "validation failure", rt: &stubRuntime{name: "bad", available: true, validErr: validationErr}, wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewRegistry()
			registry.Register(RuntimeTypeForward, tt.rt)

			result := registry.Execute(RuntimeTypeForward, &ExecutionContext{})
			if result.ExitCode != tt.wantCode {
				t.Errorf("Execute() exit code = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if tt.rt.executed != tt.wantExecuted {
				t.Errorf("runtime executed = %v, want %v", tt.rt.executed, tt.wantExecuted)
			}
		})
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	if goruntime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}

	tests := []struct {
		name     string
		script   string
		wantCode ExitCode
	}{
		{name: "success", script: "exit 0", wantCode: 0},
		{name: "plain failure", script: "exit 3", wantCode: 3},
		{name: "killed by signal collapses to one", script: "kill -9 $$", wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, err := exitCodeOf(exec.Command("/bin/sh", "-c", tt.script).Run())
			if err != nil {
				t.Fatalf("exitCodeOf() error = %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exitCodeOf() = %d, want %d", code, tt.wantCode)
			}
		})
	}

	code, err := exitCodeOf(errors.New("no status"))
	if code != 1 || err == nil {
		t.Errorf("exitCodeOf(non-exit error) = (%d, %v), want (1, error)", code, err)
	}
}
