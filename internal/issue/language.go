// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"golang.org/x/text/language"
)

// ResolveLanguage returns the configured language when it parses, otherwise
// the user's preferred language, otherwise English.
func ResolveLanguage(configured string) language.Tag {
	if tag, ok := ParseLocale(configured); ok {
		return tag
	}
	for _, candidate := range preferredLocales() {
		if tag, ok := ParseLocale(candidate); ok {
			return tag
		}
	}
	return language.English
}

// ParseLocale parses a BCP 47 tag or a POSIX locale such as "fr_FR.UTF-8@euro".
// The "C" and "POSIX" locales and empty strings are rejected.
func ParseLocale(s string) (language.Tag, bool) {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}

	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
