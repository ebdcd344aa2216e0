// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "load configuration", Resource: "/app/shimrun.cue"},
			want: "failed to load configuration: /app/shimrun.cue",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "/app/shimrun.cue",
				Cause:     errors.New("unexpected token"),
			},
			want: "failed to load configuration: /app/shimrun.cue: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("read script").Wrap(fs.ErrNotExist).BuildError()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(%v, fs.ErrNotExist) = false", err)
	}

	var actionable *ActionableError
	if !errors.As(err, &actionable) || actionable.Operation != "read script" {
		t.Errorf("errors.As() did not recover the ActionableError: %#v", err)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Check the syntax").
		WithSuggestion("Remove the file").
		Wrap(errors.Join(inner)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Check the syntax") || !strings.Contains(plain, "  • Remove the file") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the error chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. inner") {
		t.Errorf("Format(true) missing error chain:\n%s", verbose)
	}
}

func TestErrorContext_BuildCopies(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("launch").WithSuggestion("first")
	first := ctx.Build()
	ctx.WithSuggestion("second")
	second := ctx.Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("first build was modified: %v", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("second build = %v, want two suggestions", second.Suggestions)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	err := WrapWithContext(fs.ErrPermission, "open log", "/var/log/shimrun.log")
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("WrapWithContext() lost its cause: %v", err)
	}
	if !strings.Contains(err.Error(), "/var/log/shimrun.log") {
		t.Errorf("WrapWithContext() = %q, want resource in message", err)
	}
}
