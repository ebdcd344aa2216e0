// SPDX-License-Identifier: MPL-2.0

//go:build windows

package issue

import "golang.org/x/sys/windows"

// preferredLocales returns the user's UI languages in preference order.
func preferredLocales() []string {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil {
		return nil
	}
	return langs
}
