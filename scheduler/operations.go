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
	"bytes"
	"fmt"
	"io"

	"github.com/jetsetilly/gophernes/assert"
	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/govern"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/snapshot"
)

// RunSingleFrame runs the machine until the end of the current frame. It is an
// alternative to Run() for hosts that want to drive the emulation themselves.
// There is no frame pacing and the user pause flag is ignored.
//
// The run lock is held for the duration of the frame so Pause() works as
// normal from other goroutines.
func (sch *Scheduler) RunSingleFrame() (err error) {
	if !sch.active.CompareAndSwap(false, true) {
		return curated.Errorf(AlreadyRunning)
	}
	defer sch.active.Store(false)

	sch.runLock.Acquire()
	defer sch.runLock.Release()

	sch.emuGoroutine.Store(assert.GetGoRoutineID())

	frame := sch.machine.FrameCount()

	defer func() {
		if r := recover(); r != nil {
			err = sch.crash(frame, fmt.Errorf("%v", r), true)
		}
		if err != nil {
			sch.setState(govern.Crashed, govern.Normal)
		}
	}()

	for sch.machine.FrameCount() == frame {
		if dbg := sch.Debugger(); dbg != nil {
			dbg.ProcessInstruction(frame)
		}
		if err := sch.machine.Step(); err != nil {
			return sch.crash(frame, err, false)
		}
	}

	coll := sch.collaborators()
	if coll.mixer != nil {
		coll.mixer.ProcessEndOfFrame()
	}
	if coll.rewinder != nil && sch.prefs.Rewind.Get().(bool) {
		coll.rewinder.ProcessEndOfFrame(sch.machine.FrameCount(), sch.machine.Components())
	}
	if v := sch.pendingOverclock.Swap(overclockNoChange); v != overclockNoChange {
		if oc, ok := sch.machine.(Overclocker); ok {
			oc.SetOverclockDisabled(v == overclockDisable)
		}
	}

	return nil
}

// Reset the machine. A soft reset is the equivalent of pressing the reset
// button. A hard reset is the equivalent of power cycling the machine.
func (sch *Scheduler) Reset(soft bool) error {
	sch.Pause()
	defer sch.Resume()

	if err := sch.machine.Reset(soft); err != nil {
		return curated.Errorf(MachineError, err)
	}

	if rw := sch.collaborators().rewinder; rw != nil {
		rw.EndSession()
	}

	// a reset machine is no longer in a crashed state
	sch.crit.Lock()
	sch.failure = nil
	if sch.state == govern.Crashed {
		sch.state = govern.Stopped
	}
	sch.crit.Unlock()

	if dbg := sch.Debugger(); dbg != nil {
		dbg.ResetCounters()
		dbg.ResumeFromBreak()
	}

	if soft {
		logger.Log(logger.Allow, "scheduler", "soft reset")
		sch.sendNotice(notifications.NotifyGameReset, "soft")
	} else {
		logger.Log(logger.Allow, "scheduler", "hard reset")
		sch.sendNotice(notifications.NotifyGameReset, "hard")
	}

	return nil
}

// SaveState writes the state of the machine to w.
func (sch *Scheduler) SaveState(w io.Writer) error {
	sch.Pause()
	defer sch.Resume()

	if err := snapshot.WriteState(w, sch.session, sch.machine.Components()); err != nil {
		return curated.Errorf(StateError, err)
	}
	return nil
}

// LoadState reads the state of the machine from r.
func (sch *Scheduler) LoadState(r io.Reader) error {
	sch.Pause()
	defer sch.Resume()

	hdr, err := snapshot.ReadState(r, sch.machine.Components())
	if err != nil {
		return curated.Errorf(StateError, err)
	}

	sch.afterLoad(hdr)
	return nil
}

// SaveStateFile writes the state of the machine to the named file.
func (sch *Scheduler) SaveStateFile(filename string) error {
	sch.Pause()
	defer sch.Resume()

	if err := snapshot.SaveFile(filename, sch.session, sch.machine.Components()); err != nil {
		return curated.Errorf(StateError, err)
	}

	logger.Logf(logger.Allow, "scheduler", "state saved to %s", filename)
	return nil
}

// LoadStateFile reads the state of the machine from the named file.
func (sch *Scheduler) LoadStateFile(filename string) error {
	sch.Pause()
	defer sch.Resume()

	hdr, err := snapshot.LoadFile(filename, sch.machine.Components())
	if err != nil {
		return curated.Errorf(StateError, err)
	}

	sch.afterLoad(hdr)
	logger.Logf(logger.Allow, "scheduler", "state loaded from %s", filename)
	return nil
}

// SaveStateSlot writes the state of the machine to a numbered slot.
func (sch *Scheduler) SaveStateSlot(slot int) error {
	fn, err := snapshot.SlotPath(slot)
	if err != nil {
		return curated.Errorf(StateError, err)
	}
	return sch.SaveStateFile(fn)
}

// LoadStateSlot reads the state of the machine from a numbered slot.
func (sch *Scheduler) LoadStateSlot(slot int) error {
	fn, err := snapshot.SlotPath(slot)
	if err != nil {
		return curated.Errorf(StateError, err)
	}
	return sch.LoadStateFile(fn)
}

// must be called inside a Pause() window
func (sch *Scheduler) afterLoad(hdr snapshot.Header) {
	if rw := sch.collaborators().rewinder; rw != nil {
		rw.EndSession()
	}
	if dbg := sch.Debugger(); dbg != nil {
		dbg.ResetCounters()
	}

	detail := ""
	if hdr.Session != sch.session {
		detail = fmt.Sprintf("from session %s", hdr.Session)
	}
	sch.sendNotice(notifications.NotifyStateLoaded, detail)
}

// SwapPictureUnit replaces the machine's picture unit with a different variant.
// The state of the picture unit is carried over to the new unit.
func (sch *Scheduler) SwapPictureUnit(variant PictureVariant) error {
	ps, ok := sch.machine.(PictureSwapper)
	if !ok {
		return curated.Errorf(NoPictureSwap)
	}

	sch.Pause()
	defer sch.Resume()

	if ps.PictureVariant() == variant {
		return nil
	}

	var buf bytes.Buffer

	if ppu := sch.machine.Components().PPU; ppu != nil {
		if err := ppu.SaveSnapshot(&buf); err != nil {
			return curated.Errorf(PictureSwapFail, err)
		}
	}

	if err := ps.SetPictureVariant(variant); err != nil {
		return curated.Errorf(PictureSwapFail, err)
	}

	if ppu := sch.machine.Components().PPU; ppu != nil && buf.Len() > 0 {
		if err := ppu.LoadSnapshot(&buf, snapshot.Version); err != nil {
			return curated.Errorf(PictureSwapFail, err)
		}
	}

	logger.Logf(logger.Allow, "scheduler", "picture unit is now %s", variant)
	return nil
}
