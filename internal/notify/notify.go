// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"io"
	"runtime"

	"github.com/invowk/shimrun/internal/config"
	"github.com/invowk/shimrun/internal/platform"
)

type (
	// Notification is one failure report.
	Notification struct {
		// Title is the dialog caption or console heading.
		Title string
		// Message is the plain text body.
		Message string
		// Markdown is the rich body used on terminals (optional).
		Markdown string
		// Plain forces the plain text body even on a terminal.
		Plain bool
	}

	// Notifier delivers notifications to the user.
	Notifier interface {
		Notify(n Notification) error
	}
)

// New returns the notifier for mode. Console output goes to w.
func New(mode config.NotifyMode, w io.Writer) Notifier {
	return newForOS(runtime.GOOS, mode, w)
}

func newForOS(goos string, mode config.NotifyMode, w io.Writer) Notifier {
	console := NewConsole(w)
	switch mode {
	case config.NotifyConsole:
		return console
	case config.NotifyDialog:
		return NewDialog(console)
	default:
		if goos == platform.Windows {
			return NewDialog(console)
		}
		return console
	}
}
