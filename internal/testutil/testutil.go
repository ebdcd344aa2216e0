// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

// MustWriteFiles creates every file in files on fsys, creating parent
// directories as needed. Keys are paths, values are contents.
// The test fails immediately if any write fails.
func MustWriteFiles(t testing.TB, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o755); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// WriteInterpreter creates an executable POSIX shell script named name in dir
// that stands in for a real interpreter, and returns its path. body runs after
// the shebang line. The test is skipped on Windows.
func WriteInterpreter(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stand-in interpreters are POSIX shell scripts")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write interpreter %s: %v", path, err)
	}
	return path
}

// MustClose closes the given io.Closer.
// The test fails immediately if the close fails.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
