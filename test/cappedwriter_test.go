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

package test_test

import (
	"testing"

	"github.com/jetsetilly/gophernes/test"
)

func TestCappedWriter(t *testing.T) {
	_, err := test.NewCappedWriter(0)
	test.ExpectFailure(t, err)

	w, err := test.NewCappedWriter(8)
	test.DemandSuccess(t, err)

	n, _ := w.Write([]byte("abcde"))
	test.ExpectEquality(t, n, 5)
	test.ExpectEquality(t, w.String(), "abcde")
	test.ExpectFailure(t, w.Full())

	// write is truncated at the cap
	n, err = w.Write([]byte("fghij"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, w.String(), "abcdefgh")
	test.ExpectSuccess(t, w.Full())

	// no further space
	n, _ = w.Write([]byte("k"))
	test.ExpectEquality(t, n, 0)

	w.Reset()
	test.ExpectEquality(t, w.String(), "")
	test.ExpectFailure(t, w.Full())
}
