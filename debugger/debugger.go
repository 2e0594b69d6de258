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

package debugger

import (
	"sync"

	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
)

// Notices sent by the debugger.
const (
	NotifyBreak  notifications.Notice = "DebuggerBreak"
	NotifyResume notifications.Notice = "DebuggerResume"
)

// Debugger halts the emulation at instruction boundaries.
type Debugger struct {
	crit sync.Mutex
	cond *sync.Cond

	// a break has been requested. the emulation will halt at the next
	// instruction unless the debugger is suspended
	breakRequested bool

	// the emulation goroutine is halted inside ProcessInstruction()
	stopped bool

	// number of outstanding calls to Suspend()
	suspendCount int

	// number of outstanding calls to PreventResume(). Continue() does nothing
	// while this is non-zero
	preventResume int

	// halt when the frame number reaches this value. a value of less than zero
	// means there is no frame breakpoint
	breakFrame int

	// counters since the last call to ResetCounters()
	instructions int64
	breaks       int

	notify notifications.Notify
}

// NewDebugger is the preferred method of initialisation for the Debugger type.
// The notify argument can be nil.
func NewDebugger(notify notifications.Notify) *Debugger {
	dbg := &Debugger{
		breakFrame: -1,
		notify:     notify,
	}
	dbg.cond = sync.NewCond(&dbg.crit)
	return dbg
}

func (dbg *Debugger) sendNotice(notice notifications.Notice) {
	if dbg.notify == nil {
		return
	}
	if err := dbg.notify.Notify(notice, ""); err != nil {
		logger.Log(logger.Allow, "debugger", err)
	}
}

// ProcessInstruction must be called by the emulation goroutine before every
// instruction. It blocks while the emulation is halted.
func (dbg *Debugger) ProcessInstruction(frame int) {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()

	dbg.instructions++

	if dbg.breakFrame >= 0 && frame >= dbg.breakFrame {
		dbg.breakFrame = -1
		dbg.breakRequested = true
		logger.Logf(logger.Allow, "debugger", "frame breakpoint (%d)", frame)
	}

	if !dbg.breakRequested || dbg.suspendCount > 0 {
		return
	}

	dbg.stopped = true
	dbg.breaks++
	dbg.cond.Broadcast()

	dbg.crit.Unlock()
	dbg.sendNotice(NotifyBreak)
	dbg.crit.Lock()

	for dbg.breakRequested && dbg.suspendCount == 0 {
		dbg.cond.Wait()
	}

	dbg.stopped = false
	dbg.cond.Broadcast()
}

// Break requests that the emulation halts at the next instruction.
func (dbg *Debugger) Break() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	dbg.breakRequested = true
}

// BreakIfNotRequested requests a break unless one has already been requested.
// Returns true if this call requested the break.
func (dbg *Debugger) BreakIfNotRequested() bool {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	if dbg.breakRequested {
		return false
	}
	dbg.breakRequested = true
	return true
}

// BreakOnFrame requests that the emulation halts at the first instruction of
// the specified frame.
func (dbg *Debugger) BreakOnFrame(frame int) {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	dbg.breakFrame = frame
}

// ResumeFromBreak cancels the requested break and releases a halted emulation.
func (dbg *Debugger) ResumeFromBreak() {
	dbg.crit.Lock()
	wasStopped := dbg.stopped
	dbg.breakRequested = false
	dbg.cond.Broadcast()
	dbg.crit.Unlock()

	if wasStopped {
		dbg.sendNotice(NotifyResume)
	}
}

// Continue is the user's request to resume from a break. It does nothing if
// resumption has been prevented with PreventResume(). Returns true if the break
// was resumed.
func (dbg *Debugger) Continue() bool {
	dbg.crit.Lock()
	if dbg.preventResume > 0 {
		dbg.crit.Unlock()
		logger.Log(logger.Allow, "debugger", "resume prevented")
		return false
	}
	dbg.crit.Unlock()

	dbg.ResumeFromBreak()
	return true
}

// PreventResume stops Continue() from having any effect. Calls must be paired
// with AllowResume().
func (dbg *Debugger) PreventResume() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	dbg.preventResume++
}

// AllowResume reverses the effect of PreventResume().
func (dbg *Debugger) AllowResume() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	if dbg.preventResume > 0 {
		dbg.preventResume--
	}
}

// Suspend prevents ProcessInstruction() from blocking. A halted emulation will
// continue. Calls must be paired with Resume().
func (dbg *Debugger) Suspend() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	dbg.suspendCount++
	dbg.cond.Broadcast()
}

// Resume reverses the effect of Suspend(). If a break is still requested then
// the emulation will halt at the next instruction.
func (dbg *Debugger) Resume() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	if dbg.suspendCount > 0 {
		dbg.suspendCount--
	}
}

// IsExecutionStopped returns true if the emulation goroutine is halted.
func (dbg *Debugger) IsExecutionStopped() bool {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	return dbg.stopped
}

// IsBreakRequested returns true if a break has been requested and not resumed.
func (dbg *Debugger) IsBreakRequested() bool {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	return dbg.breakRequested
}

// Counters returns the number of instructions processed and the number of
// breaks since the last call to ResetCounters().
func (dbg *Debugger) Counters() (instructions int64, breaks int) {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	return dbg.instructions, dbg.breaks
}

// ResetCounters sets the instruction and break counters to zero. Called when
// the machine is reset or a state is loaded.
func (dbg *Debugger) ResetCounters() {
	dbg.crit.Lock()
	defer dbg.crit.Unlock()
	dbg.instructions = 0
	dbg.breaks = 0
}
