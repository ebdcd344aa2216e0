// SPDX-License-Identifier: MPL-2.0

package cmdline

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Join renders argv as a single command line. The program token is wrapped
// in double quotes when it contains blanks so SkipProgramToken can find its
// end; every other argument is quoted with POSIX shell rules when needed.
func Join(argv []string) string {
	if len(argv) == 0 {
		return ""
	}

	var b strings.Builder
	prog := argv[0]
	if prog == "" || strings.ContainsAny(prog, " \t") {
		b.WriteString(`"` + prog + `"`)
	} else {
		b.WriteString(prog)
	}

	for _, arg := range argv[1:] {
		b.WriteByte(' ')
		b.WriteString(quote(arg))
	}
	return b.String()
}

func quote(arg string) string {
	q, err := syntax.Quote(arg, syntax.LangPOSIX)
	if err != nil {
		// Non-printable characters need bash's $'...' form; NUL fails both.
		q, err = syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return arg
		}
	}
	return q
}
