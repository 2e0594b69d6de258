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

package locking_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/assert"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/locking"
	"github.com/jetsetilly/gophernes/test"
)

func TestReentrancy(t *testing.T) {
	var m locking.ReentrantMutex
	test.ExpectSuccess(t, m.IsFree())

	m.Acquire()
	m.Acquire()
	m.Acquire()
	test.ExpectEquality(t, m.Count(), 3)
	test.ExpectSuccess(t, m.IsOwner())
	test.ExpectEquality(t, m.Owner(), assert.GetGoRoutineID())

	m.Release()
	m.Release()
	test.ExpectFailure(t, m.IsFree())
	m.Release()
	test.ExpectSuccess(t, m.IsFree())
	test.ExpectFailure(t, m.IsOwner())
	test.ExpectEquality(t, m.Owner(), 0)
}

// another goroutine must block until every acquisition by the owner has been
// matched by a release
func TestBlocksOtherGoroutine(t *testing.T) {
	var m locking.ReentrantMutex

	const k = 5
	for range k {
		m.Acquire()
	}

	var acquired atomic.Bool
	done := make(chan bool)
	go func() {
		m.Acquire()
		acquired.Store(true)
		m.Release()
		done <- true
	}()

	for range k - 1 {
		m.Release()
		time.Sleep(5 * time.Millisecond)
		test.ExpectFailure(t, acquired.Load())
	}

	m.Release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("goroutine did not acquire mutex after final release")
	}
	test.ExpectSuccess(t, acquired.Load())
	test.ExpectSuccess(t, m.IsFree())
}

func TestTryAcquire(t *testing.T) {
	var m locking.ReentrantMutex
	test.ExpectSuccess(t, m.TryAcquire())
	test.ExpectSuccess(t, m.TryAcquire())

	ok := make(chan bool)
	go func() {
		ok <- m.TryAcquire()
	}()
	test.ExpectFailure(t, <-ok)

	m.Release()
	m.Release()
	test.ExpectSuccess(t, m.IsFree())
}

func expectPanic(t *testing.T, pattern string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Errorf("expected panic")
			return
		}
		err, ok := r.(error)
		if !ok {
			t.Errorf("panic value is not an error: %v", r)
			return
		}
		test.ExpectSuccess(t, curated.Is(err, pattern))
	}()
	f()
}

func TestReleaseErrors(t *testing.T) {
	var m locking.ReentrantMutex

	expectPanic(t, locking.ReleaseNotHeld, m.Release)

	m.Acquire()
	done := make(chan bool)
	go func() {
		defer func() { done <- true }()
		expectPanic(t, locking.ReleaseNotOwner, m.Release)
	}()
	<-done

	// mutex is still held by this goroutine
	test.ExpectEquality(t, m.Count(), 1)
	m.Release()
}

func TestWaitForRelease(t *testing.T) {
	var m locking.ReentrantMutex
	m.Acquire()

	var released atomic.Bool
	done := make(chan bool)
	go func() {
		m.WaitForRelease()
		test.ExpectSuccess(t, released.Load())
		done <- true
	}()

	time.Sleep(10 * time.Millisecond)
	released.Store(true)
	m.Release()
	<-done

	// WaitForRelease() does not leave the mutex held
	test.ExpectSuccess(t, m.IsFree())
}

// many goroutines incrementing a counter that is protected by the mutex. each
// goroutine acquires the mutex twice
func TestMutualExclusion(t *testing.T) {
	var m locking.ReentrantMutex
	var wg sync.WaitGroup

	var inside atomic.Int32
	counter := 0

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.Acquire()
				m.Acquire()
				if inside.Add(1) != 1 {
					t.Errorf("more than one goroutine inside critical section")
				}
				counter++
				inside.Add(-1)
				m.Release()
				m.Release()
			}
		}()
	}

	wg.Wait()
	test.ExpectEquality(t, counter, 2000)
	test.ExpectSuccess(t, m.IsFree())
}

func TestGuard(t *testing.T) {
	var m locking.ReentrantMutex

	func() {
		g := locking.Acquire(&m)
		defer g.Release()
		test.ExpectEquality(t, m.Count(), 1)

		// explicit release followed by the deferred release
		g.Release()
		test.ExpectSuccess(t, m.IsFree())
	}()
	test.ExpectSuccess(t, m.IsFree())

	// guard releases on panic
	func() {
		defer func() { _ = recover() }()
		g := locking.Acquire(&m)
		defer g.Release()
		panic("unwinding")
	}()
	test.ExpectSuccess(t, m.IsFree())
}
