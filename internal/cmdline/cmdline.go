// SPDX-License-Identifier: MPL-2.0

package cmdline

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf16"

	"github.com/invowk/shimrun/internal/platform"
)

// DefaultMaxLength is the CreateProcess command line limit in UTF-16 code units.
const DefaultMaxLength = 32767

// ErrCommandLineTooLong is the sentinel error wrapped by TooLongError.
var ErrCommandLineTooLong = errors.New("command line too long")

// TooLongError is returned when a rebuilt command line exceeds its limit.
type TooLongError struct {
	Length int
	Limit  int
}

// Error implements the error interface.
func (e *TooLongError) Error() string {
	return fmt.Sprintf("rebuilt command line is %d characters long, limit is %d", e.Length, e.Limit)
}

// Unwrap returns ErrCommandLineTooLong for errors.Is() compatibility.
func (e *TooLongError) Unwrap() error { return ErrCommandLineTooLong }

// SkipProgramToken returns what follows the first token of raw.
//
// Leading blanks are skipped. A token opening with '"' runs to the matching
// closing quote, which is consumed; any other token runs to the next blank.
// The remainder keeps its own leading blanks untouched.
func SkipProgramToken(raw string) string {
	i := 0
	for i < len(raw) && isBlank(raw[i]) {
		i++
	}
	if i == len(raw) {
		return ""
	}

	if raw[i] == '"' {
		i++
		for i < len(raw) && raw[i] != '"' {
			i++
		}
		if i < len(raw) {
			i++
		}
		return raw[i:]
	}

	for i < len(raw) && !isBlank(raw[i]) {
		i++
	}
	return raw[i:]
}

// Rebuild formats `"<interpreter>" "<script>"<tail>`.
// A result longer than limit fails with *TooLongError; limit <= 0 disables the check.
func Rebuild(interpreter, script, tail string, limit int) (string, error) {
	var b strings.Builder
	b.Grow(len(interpreter) + len(script) + len(tail) + 5)
	b.WriteByte('"')
	b.WriteString(interpreter)
	b.WriteString(`" "`)
	b.WriteString(script)
	b.WriteByte('"')
	b.WriteString(tail)

	line := b.String()
	if n := length(line); limit > 0 && n > limit {
		return "", &TooLongError{Length: n, Limit: limit}
	}
	return line, nil
}

// Prefix returns the part Rebuild places before the tail.
func Prefix(interpreter, script string) string {
	return `"` + interpreter + `" "` + script + `"`
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

// length counts characters the way the target OS limits them: UTF-16 code
// units on Windows, bytes elsewhere.
func length(s string) int {
	if runtime.GOOS == platform.Windows {
		return len(utf16.Encode([]rune(s)))
	}
	return len(s)
}
