// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package notify

// Dialog forwards to its fallback: there is no portable message box outside Windows.
type Dialog struct {
	fallback Notifier
}

// NewDialog creates a dialog notifier backed by fallback.
func NewDialog(fallback Notifier) *Dialog {
	return &Dialog{fallback: fallback}
}

// Notify forwards n to the fallback notifier.
func (d *Dialog) Notify(n Notification) error {
	return d.fallback.Notify(n)
}
