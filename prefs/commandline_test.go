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

package prefs_test

import (
	"testing"

	"github.com/jetsetilly/gophernes/prefs"
	"github.com/jetsetilly/gophernes/test"
)

func TestCommandLineStackValues(t *testing.T) {
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	prefs.PushCommandLineStack("scheduler.speed::200")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 1)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "scheduler.speed::200")

	// whitespace around keys and values is removed
	prefs.PushCommandLineStack("   scheduler.region:: PAL ")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "scheduler.region::PAL")

	// unused values are returned sorted by key
	prefs.PushCommandLineStack("scheduler.speed::0; autosave.enabled::false")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "autosave.enabled::false; scheduler.speed::0")

	// entries that are not key/value pairs are ignored
	prefs.PushCommandLineStack("rewind.enabled")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
	prefs.PushCommandLineStack("rewind.enabled;rewind.maxentries::50;::10;a::b::c")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "rewind.maxentries::50")
}

func TestCommandLinePref(t *testing.T) {
	prefs.PushCommandLineStack("scheduler.speed::200;video.scale::2")

	ok, v := prefs.GetCommandLinePref("scheduler.speed")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "200")

	// a value is only used once
	ok, _ = prefs.GetCommandLinePref("scheduler.speed")
	test.ExpectFailure(t, ok)

	ok, _ = prefs.GetCommandLinePref("video.filter")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, prefs.PopCommandLineStack(), "video.scale::2")
}

func TestCommandLineStack(t *testing.T) {
	prefs.PushCommandLineStack("scheduler.speed::50")
	prefs.PushCommandLineStack("scheduler.speed::400")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 2)

	// only the top group is consulted
	ok, v := prefs.GetCommandLinePref("scheduler.speed")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(string), "400")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// the first group is untouched
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "scheduler.speed::50")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
}
