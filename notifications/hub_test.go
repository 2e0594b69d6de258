// This file is part of GopherNES.
//
// GopherNES is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherNES is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherNES.  If not, see <https://www.gnu.org/licenses/>.

package notifications_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/test"
)

type listener struct {
	received []notifications.Notice
	details  []string
	fail     bool
}

func (l *listener) Notify(notice notifications.Notice, detail string) error {
	l.received = append(l.received, notice)
	l.details = append(l.details, detail)
	if l.fail {
		return errors.New("listener failed")
	}
	return nil
}

func TestHub(t *testing.T) {
	h := notifications.NewHub()

	a := &listener{}
	b := &listener{fail: true}
	h.AddListener(a)
	h.AddListener(b)

	// failure in one listener does not prevent delivery to others
	err := h.Notify(notifications.NotifyGamePaused, "")
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, len(a.received), 1)
	test.ExpectEquality(t, len(b.received), 1)

	h.RemoveListener(b)
	test.ExpectSuccess(t, h.Notify(notifications.NotifyGameResumed, ""))
	test.ExpectEquality(t, len(a.received), 2)
	test.ExpectEquality(t, len(b.received), 1)

	h.DisplayMessage(notifications.NotifyGameCrash, "bad opcode")
	test.ExpectEquality(t, a.received[2], notifications.NotifyGameCrash)
	test.ExpectEquality(t, a.details[2], "bad opcode")
}

func TestNilHub(t *testing.T) {
	var h *notifications.Hub
	test.ExpectSuccess(t, h.Notify(notifications.NotifyGameStopped, ""))
}

func TestNotifyFunc(t *testing.T) {
	var got notifications.Notice
	f := notifications.NotifyFunc(func(notice notifications.Notice, _ string) error {
		got = notice
		return nil
	})

	h := notifications.NewHub()
	h.AddListener(f)
	test.ExpectSuccess(t, h.Notify(notifications.NotifyAutoSaved, "slot 11"))
	test.ExpectEquality(t, got, notifications.NotifyAutoSaved)
}
