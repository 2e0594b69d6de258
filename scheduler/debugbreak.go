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
	"time"

	"github.com/jetsetilly/gophernes/govern"
)

// the interval at which DebugBreak polls the debugger
const breakPoll = time.Millisecond

// DebugBreak halts the emulation at an instruction boundary for as long as it
// is held. It is created with BreakForDebug() and must be released with
// Release().
type DebugBreak struct {
	dbg Debugger

	// the break was caused by this DebugBreak and not by someone else
	caused bool

	// the emulation was confirmed as halted
	halted bool

	released bool
}

// BreakForDebug halts the emulation at the next instruction boundary and waits
// until the emulation has halted.
//
// If the caller is the emulation goroutine, or if there is no debugger
// attached, the function does nothing. The returned value must still be
// released.
//
// The wait also ends if the emulation loop stops or is paused by the user.
// Halted() will return false in that case.
func (sch *Scheduler) BreakForDebug() *DebugBreak {
	brk := &DebugBreak{}

	dbg := sch.Debugger()
	if dbg == nil || sch.isEmulationGoroutine() {
		brk.released = true
		return brk
	}

	brk.dbg = dbg
	dbg.PreventResume()

	brk.caused = dbg.BreakIfNotRequested()

	for !dbg.IsExecutionStopped() {
		if !sch.IsRunning() {
			return brk
		}
		if state, sub := sch.State(); state == govern.Paused && sub == govern.PausedByUser {
			return brk
		}

		// the caller holds the run lock and so the emulation can never reach
		// the next instruction
		if sch.runLock.IsOwner() {
			return brk
		}

		time.Sleep(breakPoll)
	}

	brk.halted = true
	return brk
}

// Halted returns true if the emulation was confirmed as halted.
func (brk *DebugBreak) Halted() bool {
	return brk.halted
}

// Release undoes the effect of BreakForDebug(). The emulation is only resumed
// if the break was caused by BreakForDebug(). It is safe to call more than
// once.
func (brk *DebugBreak) Release() {
	if brk.released {
		return
	}
	brk.released = true

	if brk.caused {
		brk.dbg.ResumeFromBreak()
	}
	brk.dbg.AllowResume()
}
