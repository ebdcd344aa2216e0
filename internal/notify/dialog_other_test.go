// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package notify

import "testing"

func TestDialog_ForwardsToFallback(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	n := Notification{Title: "shimrun", Message: "boom"}
	if err := NewDialog(rec).Notify(n); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(rec.got) != 1 || rec.got[0] != n {
		t.Errorf("fallback received %v, want [%v]", rec.got, n)
	}
}
