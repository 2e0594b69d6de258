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

package scheduler

import (
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/logger"
)

// Pause blocks until the emulation goroutine reaches its safe point. When the
// function returns the caller has exclusive access to the machine. Every call
// to Pause() must be matched by a call to Resume() from the same goroutine.
//
// Pause() can be called from any goroutine, including the emulation goroutine,
// and calls can be nested. Only the outermost pair of calls blocks and wakes the
// emulation goroutine.
func (sch *Scheduler) Pause() {
	// a halted emulation would never reach the safe point
	if dbg := sch.Debugger(); dbg != nil {
		dbg.Suspend()
	}
	sch.pauseLock.Acquire()
	sch.runLock.Acquire()
}

// Resume releases the exclusive access taken by Pause().
func (sch *Scheduler) Resume() {
	sch.runLock.Release()
	sch.pauseLock.Release()
	if dbg := sch.Debugger(); dbg != nil {
		dbg.Resume()
	}
}

// WithPause calls the function inside a Pause() window.
func (sch *Scheduler) WithPause(f func() error) error {
	sch.Pause()
	defer sch.Resume()
	return f()
}

// Stop asks the emulation loop to end with the specified stop code. The loop
// ends after the current frame has completed and Stop() blocks until the loop
// has ended.
//
// Stop() does not block when called from the emulation goroutine or from
// inside a Pause() window, because the loop can not end until the caller
// returns or resumes.
func (sch *Scheduler) Stop(code govern.StopCode) {
	// a crash code is never replaced
	if govern.StopCode(sch.stopCode.Load()) != govern.StopCodeCrash {
		sch.stopCode.Store(int32(code))
	}
	sch.stopFlag.Store(true)

	if sch.isEmulationGoroutine() {
		return
	}

	if sch.pauseLock.IsOwner() {
		logger.Log(logger.Allow, "scheduler", "stop requested inside a pause window")
		return
	}

	// a halted emulation would never reach the end of the frame
	if dbg := sch.Debugger(); dbg != nil {
		dbg.Suspend()
		defer dbg.Resume()
	}

	sch.stopLock.WaitForRelease()
}

// GetStopCode returns the code passed to the most recent call to Stop(). The
// code is StopCodeCrash if the emulation loop ended because of a fault in the
// machine.
func (sch *Scheduler) GetStopCode() govern.StopCode {
	return govern.StopCode(sch.stopCode.Load())
}

// IsRunning returns true if the emulation loop is running. The result is
// advisory and may be out of date by the time it is used.
func (sch *Scheduler) IsRunning() bool {
	return !sch.stopLock.IsFree() && sch.running.Load()
}

// IsPaused returns true if the emulation loop is not currently able to run.
// This is the case when the loop is not running, when a goroutine is inside a
// Pause() window, or when the emulation goroutine is waiting at its safe
// point. The result is advisory and may be out of date by the time it is used.
func (sch *Scheduler) IsPaused() bool {
	return sch.runLock.IsFree() || !sch.pauseLock.IsFree() || !sch.running.Load()
}
