// SPDX-License-Identifier: MPL-2.0

//go:build windows

package notify

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

// Dialog shows notifications in a modal error message box.
type Dialog struct {
	fallback Notifier
}

// NewDialog creates a message box notifier. fallback receives notifications
// the message box could not display.
func NewDialog(fallback Notifier) *Dialog {
	return &Dialog{fallback: fallback}
}

// Notify shows n and blocks until the user dismisses it.
func (d *Dialog) Notify(n Notification) error {
	text, err := windows.UTF16PtrFromString(n.Message)
	if err != nil {
		return d.fallback.Notify(n)
	}
	caption, err := windows.UTF16PtrFromString(n.Title)
	if err != nil {
		return d.fallback.Notify(n)
	}

	if _, err := windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR); err != nil {
		slog.Debug("message box failed", "error", err)
		return d.fallback.Notify(n)
	}
	return nil
}
