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

package locking

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gophernes/assert"
	"github.com/jetsetilly/gophernes/curated"
)

// Sentinel error patterns. These are the values of the panics raised by
// Release() when the mutex is used incorrectly.
const (
	ReleaseNotOwner = "locking: release by goroutine %d but mutex is owned by goroutine %d"
	ReleaseNotHeld  = "locking: release of mutex that is not held"
)

// ReentrantMutex is a mutex with goroutine affinity. The goroutine that owns
// the mutex may acquire it again without blocking. Each Acquire() must be
// matched by a Release() from the same goroutine before any other goroutine
// can take ownership.
//
// The zero value is an unlocked mutex.
type ReentrantMutex struct {
	crit sync.Mutex
	cond *sync.Cond

	// owner is zero when the mutex is free. only written with crit held
	owner uint64

	// count is only written with crit held but is read without crit by
	// IsFree() and Count()
	count atomic.Int32
}

// the condition variable is created lazily so that the zero value of the
// mutex is usable. must be called with crit held
func (m *ReentrantMutex) init() {
	if m.cond == nil {
		m.cond = sync.NewCond(&m.crit)
	}
}

// Acquire takes ownership of the mutex for the calling goroutine. If the
// calling goroutine already owns the mutex the recursion count is increased and
// the function returns immediately. Otherwise it blocks until the mutex is free.
func (m *ReentrantMutex) Acquire() {
	id := assert.GetGoRoutineID()

	m.crit.Lock()
	defer m.crit.Unlock()
	m.init()

	if m.owner == id {
		m.count.Add(1)
		return
	}

	for m.owner != 0 {
		m.cond.Wait()
	}

	m.owner = id
	m.count.Store(1)
}

// TryAcquire is the same as Acquire() except that it returns false rather than
// blocking if the mutex is owned by another goroutine.
func (m *ReentrantMutex) TryAcquire() bool {
	id := assert.GetGoRoutineID()

	m.crit.Lock()
	defer m.crit.Unlock()
	m.init()

	if m.owner == id {
		m.count.Add(1)
		return true
	}

	if m.owner != 0 {
		return false
	}

	m.owner = id
	m.count.Store(1)
	return true
}

// Release reduces the recursion count of the mutex. When the count reaches
// zero the mutex is free and any goroutines waiting in Acquire() are woken.
//
// Release panics if the calling goroutine does not own the mutex.
func (m *ReentrantMutex) Release() {
	id := assert.GetGoRoutineID()

	m.crit.Lock()
	defer m.crit.Unlock()
	m.init()

	if m.owner == 0 {
		panic(curated.Errorf(ReleaseNotHeld))
	}

	if m.owner != id {
		panic(curated.Errorf(ReleaseNotOwner, id, m.owner))
	}

	if m.count.Add(-1) == 0 {
		m.owner = 0
		m.cond.Broadcast()
	}
}

// WaitForRelease blocks until the mutex is free. The mutex is acquired and
// immediately released so it is not held when the function returns.
func (m *ReentrantMutex) WaitForRelease() {
	m.Acquire()
	m.Release()
}

// IsFree returns true if the mutex is not owned by any goroutine.
//
// The result is advisory only. The state of the mutex may have changed by the
// time the caller acts on the result and the function must never be used to
// decide whether it is safe to touch state protected by the mutex.
func (m *ReentrantMutex) IsFree() bool {
	return m.count.Load() == 0
}

// Count returns the current recursion count. Like IsFree(), the result is
// advisory only.
func (m *ReentrantMutex) Count() int {
	return int(m.count.Load())
}

// IsOwner returns true if the calling goroutine owns the mutex.
func (m *ReentrantMutex) IsOwner() bool {
	id := assert.GetGoRoutineID()
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.owner == id
}

// Owner returns the goroutine id of the current owner. Zero if the mutex is
// free. Like IsFree(), the result is advisory only.
func (m *ReentrantMutex) Owner() uint64 {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.owner
}
