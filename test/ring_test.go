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
	"sync"
	"testing"

	"github.com/jetsetilly/gophernes/test"
)

func TestRingWriter(t *testing.T) {
	_, err := test.NewRingWriter(0)
	test.ExpectFailure(t, err)

	r, err := test.NewRingWriter(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.String(), "")

	r.Write([]byte("abcde"))
	r.Write([]byte("fgh"))
	test.ExpectEquality(t, r.String(), "abcdefgh")

	// the oldest bytes are dropped once the ring is full
	r.Write([]byte("ijkl"))
	test.ExpectEquality(t, r.String(), "cdefghijkl")

	// a write longer than the ring keeps only its tail
	n, err := r.Write([]byte("1234567890ABC"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 13)
	test.ExpectEquality(t, r.String(), "4567890ABC")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
}

func TestRingWriterConcurrent(t *testing.T) {
	r, err := test.NewRingWriter(64)
	test.DemandSuccess(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				r.Write([]byte("scheduler: frame\n"))
				_ = r.String()
			}
		}()
	}
	wg.Wait()

	test.ExpectEquality(t, len(r.String()), 64)
}
