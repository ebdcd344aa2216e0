// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/invowk/shimrun/internal/testutil"
)

// waitForFile polls until path exists or the deadline passes.
func waitForFile(t *testing.T, path string) string {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil {
			return string(data)
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
	return ""
}

func TestDetachedRuntime_ReturnsWithoutWaiting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")
	testutil.WriteInterpreter(t, dir, "perl", `sleep 1
printf '%s\n' "$@" > "$MARKER.tmp" && mv "$MARKER.tmp" "$MARKER"
exit 9`)

	ctx := &ExecutionContext{
		Paths: testPaths(dir),
		Args:  []string{"--foo", "b c"},
		Env:   append(os.Environ(), "MARKER="+marker),
	}

	rt := NewDetachedRuntime()
	if err := rt.Validate(ctx); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	result := rt.Execute(ctx)
	if !result.Success() {
		t.Fatalf("Execute() = (%d, %v), want success", result.ExitCode, result.Error)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("Execute() waited for the interpreter to finish")
	}

	got := waitForFile(t, marker)
	want := strings.Join([]string{ctx.Paths.Script, "--foo", "b c"}, "\n") + "\n"
	if got != want {
		t.Errorf("interpreter received %q, want %q", got, want)
	}
}

func TestDetachedRuntime_SpawnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := &ExecutionContext{Paths: testPaths(dir)}

	result := NewDetachedRuntime().Execute(ctx)
	if !errors.Is(result.Error, ErrSpawnFailed) {
		t.Fatalf("Execute() error = %v, want ErrSpawnFailed", result.Error)
	}

	var spawnErr *SpawnError
	if !errors.As(result.Error, &spawnErr) || spawnErr.Path != ctx.Paths.Interpreter {
		t.Errorf("Execute() error = %#v, want SpawnError for %s", result.Error, ctx.Paths.Interpreter)
	}
}

func TestDetachedRuntime_IgnoresInterpreterArgs(t *testing.T) {
	t.Parallel()

	var started *exec.Cmd
	rt := NewDetachedRuntime()
	rt.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	ctx := &ExecutionContext{
		Paths:           testPaths("/app"),
		Args:            []string{"x"},
		InterpreterArgs: []string{"-w"},
		CommandLine:     `"/app/perl" "/app/main" x`,
	}
	if result := rt.Execute(ctx); !result.Success() {
		t.Fatalf("Execute() error = %v", result.Error)
	}

	want := []string{ctx.Paths.Interpreter, ctx.Paths.Script, "x"}
	if strings.Join(started.Args, "|") != strings.Join(want, "|") {
		t.Errorf("started args = %q, want %q", started.Args, want)
	}
}

func TestDetachedRuntime_Validate(t *testing.T) {
	t.Parallel()

	rt := NewDetachedRuntime()
	if err := rt.Validate(&ExecutionContext{}); err == nil {
		t.Error("Validate() with unresolved paths should fail")
	}
	if !rt.NeedsInterpreter() {
		t.Error("detached runtime must require the interpreter binary")
	}
}
