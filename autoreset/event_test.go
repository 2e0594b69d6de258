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

package autoreset_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/autoreset"
	"github.com/jetsetilly/gophernes/test"
)

func TestSignalBeforeWait(t *testing.T) {
	var e autoreset.Event

	// more than one signal before the wait collapses into one
	e.Signal()
	e.Signal()
	e.Signal()
	test.ExpectSuccess(t, e.IsSignaled())

	test.ExpectSuccess(t, e.Wait(10*time.Millisecond))
	test.ExpectFailure(t, e.IsSignaled())

	// second wait times out
	test.ExpectFailure(t, e.Wait(10*time.Millisecond))
}

func TestWaitTimeout(t *testing.T) {
	var e autoreset.Event

	start := time.Now()
	test.ExpectFailure(t, e.Wait(20*time.Millisecond))
	test.ExpectSuccess(t, time.Since(start) >= 20*time.Millisecond)
}

func TestReset(t *testing.T) {
	var e autoreset.Event
	e.Signal()
	e.Reset()
	test.ExpectFailure(t, e.Wait(5*time.Millisecond))
}

func TestWaitIndefinitely(t *testing.T) {
	var e autoreset.Event

	done := make(chan bool)
	go func() {
		done <- e.Wait(0)
	}()

	select {
	case <-done:
		t.Fatalf("wait returned before signal")
	case <-time.After(20 * time.Millisecond):
	}

	e.Signal()

	select {
	case ok := <-done:
		test.ExpectSuccess(t, ok)
	case <-time.After(time.Second):
		t.Fatalf("wait did not return after signal")
	}
}

// one signal releases exactly one of several waiting goroutines
func TestSingleWakeup(t *testing.T) {
	var e autoreset.Event
	var woken atomic.Int32
	var wg sync.WaitGroup

	const waiters = 4
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e.Wait(100 * time.Millisecond) {
				woken.Add(1)
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	e.Signal()
	wg.Wait()

	test.ExpectEquality(t, woken.Load(), 1)
}
