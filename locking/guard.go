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

// Guard is a scoped acquisition of a ReentrantMutex. The usual pattern is:
//
//	g := locking.Acquire(&m)
//	defer g.Release()
//
// Release() only releases the mutex once no matter how many times it is called,
// so an early explicit release followed by the deferred release is safe.
type Guard struct {
	m        *ReentrantMutex
	released bool
}

// Acquire the mutex and return a Guard that will release it.
func Acquire(m *ReentrantMutex) *Guard {
	m.Acquire()
	return &Guard{m: m}
}

// Release the mutex if it has not already been released by this guard. Must
// be called by the goroutine that created the guard.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.m.Release()
}
