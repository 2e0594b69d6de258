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

package scheduler_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gophernes/debugger"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/test"
)

func TestDebugBreak(t *testing.T) {
	m := newMachine(1000)
	sch, _ := newScheduler(t, m, 0)

	dbg := debugger.NewDebugger(nil)
	sch.AttachDebugger(dbg)

	done := start(t, sch)
	test.ExpectSuccess(t, waitFrames(m, 2))

	brk := sch.BreakForDebug()
	test.ExpectSuccess(t, brk.Halted())
	test.ExpectSuccess(t, dbg.IsExecutionStopped())

	// no instructions are executed during the break
	n := m.instructions.Load()
	time.Sleep(10 * time.Millisecond)
	test.ExpectEquality(t, m.instructions.Load(), n)

	// the user can not resume while the break is held
	test.ExpectFailure(t, dbg.Continue())

	// Pause() lets the halted emulation continue to the safe point. the break
	// takes effect again after Resume()
	sch.Pause()
	test.ExpectSuccess(t, m.atFrameBoundary())
	sch.Resume()
	test.ExpectSuccess(t, waitFor(dbg.IsExecutionStopped))

	brk.Release()
	brk.Release()
	test.ExpectSuccess(t, waitFor(func() bool { return m.instructions.Load() > n+1000 }))

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

// a break requested by someone else is not resumed when the DebugBreak is
// released
func TestDebugBreakExisting(t *testing.T) {
	m := newMachine(1000)
	sch, _ := newScheduler(t, m, 0)

	dbg := debugger.NewDebugger(nil)
	sch.AttachDebugger(dbg)

	done := start(t, sch)

	dbg.Break()
	test.DemandSuccess(t, waitFor(dbg.IsExecutionStopped))

	brk := sch.BreakForDebug()
	test.ExpectSuccess(t, brk.Halted())
	brk.Release()

	time.Sleep(10 * time.Millisecond)
	test.ExpectSuccess(t, dbg.IsExecutionStopped())

	// stopping the scheduler while the emulation is halted
	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

// endOfFrame is a mixer that calls a function at the end of every frame
type endOfFrame func()

func (f endOfFrame) ProcessEndOfFrame() {
	f()
}

func (f endOfFrame) StopAudio() {}

// a DebugBreak created on the emulation goroutine does nothing
func TestDebugBreakFromEmulation(t *testing.T) {
	m := newMachine(100)
	sch, _ := newScheduler(t, m, 0)

	dbg := debugger.NewDebugger(nil)
	sch.AttachDebugger(dbg)

	var halted, requested bool
	sch.SetMixer(endOfFrame(func() {
		brk := sch.BreakForDebug()
		halted = brk.Halted()
		requested = dbg.IsBreakRequested()
		brk.Release()
	}))

	test.ExpectSuccess(t, sch.RunSingleFrame())
	test.ExpectFailure(t, halted)
	test.ExpectFailure(t, requested)
}

// with no debugger attached the DebugBreak does nothing
func TestDebugBreakNoDebugger(t *testing.T) {
	m := newMachine(100)
	sch, _ := newScheduler(t, m, 0)
	done := start(t, sch)

	brk := sch.BreakForDebug()
	test.ExpectFailure(t, brk.Halted())
	brk.Release()

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}

// concurrent breaks both see the emulation halted and the emulation continues
// once both have been released
func TestConcurrentDebugBreak(t *testing.T) {
	m := newMachine(1000)
	sch, _ := newScheduler(t, m, 0)

	dbg := debugger.NewDebugger(nil)
	sch.AttachDebugger(dbg)

	done := start(t, sch)
	test.ExpectSuccess(t, waitFrames(m, 2))

	brks := make(chan *scheduler.DebugBreak, 2)
	for range 2 {
		go func() {
			brks <- sch.BreakForDebug()
		}()
	}

	a := <-brks
	b := <-brks
	test.ExpectSuccess(t, a.Halted())
	test.ExpectSuccess(t, b.Halted())

	a.Release()
	b.Release()
	test.ExpectFailure(t, dbg.IsBreakRequested())

	n := m.instructions.Load()
	test.ExpectSuccess(t, waitFor(func() bool { return m.instructions.Load() > n+1000 }))

	sch.Stop(govern.StopCodeNormal)
	test.ExpectSuccess(t, <-done)
}
