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

// Package autoreset implements an auto-resetting event. A goroutine waits on
// the event until another goroutine signals it. Waking from a wait clears the
// signal so that the next wait blocks until the event is signalled again.
//
// Signals are not counted. Signalling an event that is already signalled has
// no effect, so any number of signals before a wait result in exactly one
// wakeup.
package autoreset

import (
	"sync"
	"time"
)

// Event is an auto-resetting event. The zero value is an unsignalled event.
type Event struct {
	crit     sync.Mutex
	signaled bool

	// wake is closed and replaced whenever the event is signalled. waiters
	// select on the channel so that a timeout can be applied
	wake chan struct{}
}

// must be called with crit held
func (e *Event) waitChannel() chan struct{} {
	if e.wake == nil {
		e.wake = make(chan struct{})
	}
	return e.wake
}

// Wait blocks until the event is signalled. If timeout is greater than zero
// then Wait returns after that duration even if the event has not been
// signalled. A timeout of zero waits indefinitely.
//
// Returns true if the event was signalled and false if the timeout expired. In
// both cases the event is in the unsignalled state when the function returns.
func (e *Event) Wait(timeout time.Duration) bool {
	var expired <-chan time.Time
	if timeout > 0 {
		tmr := time.NewTimer(timeout)
		defer tmr.Stop()
		expired = tmr.C
	}

	e.crit.Lock()
	for !e.signaled {
		wake := e.waitChannel()
		e.crit.Unlock()

		select {
		case <-wake:
		case <-expired:
			e.crit.Lock()
			signaled := e.signaled
			e.signaled = false
			e.crit.Unlock()
			return signaled
		}

		e.crit.Lock()
	}

	e.signaled = false
	e.crit.Unlock()

	return true
}

// Signal sets the event and wakes all goroutines waiting on it. Only one of
// the waiting goroutines will see the signal. The others will continue to
// wait.
func (e *Event) Signal() {
	e.crit.Lock()
	defer e.crit.Unlock()

	e.signaled = true
	close(e.waitChannel())
	e.wake = make(chan struct{})
}

// Reset clears the event without waking any goroutines.
func (e *Event) Reset() {
	e.crit.Lock()
	defer e.crit.Unlock()
	e.signaled = false
}

// IsSignaled returns the current state of the event. The state may have
// changed by the time the caller acts on the result.
func (e *Event) IsSignaled() bool {
	e.crit.Lock()
	defer e.crit.Unlock()
	return e.signaled
}
