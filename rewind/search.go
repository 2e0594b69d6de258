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

package rewind

import (
	"bytes"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/snapshot"
)

// Sentinal error returned when there is nothing in the rewind history.
const NoHistory = "rewind: no history"

// Error pattern used when a state can not be restored.
const RestoreError = "rewind: restore: %v"

// index returns the position in the circular array of the i'th entry counting
// from the start of the history.
func (r *Rewind) index(i int) int {
	return (r.start + i) % len(r.entries)
}

// findFrameIndex returns the index of the most recent entry with a frame
// number that is less than or equal to the requested frame. if the frame is
// before the start of the history, the index of the first entry is returned.
//
// must be called with the critical section held and with at least one entry
// in the history.
func (r *Rewind) findFrameIndex(frame int) int {
	n := r.end - r.start
	if n < 0 {
		n += len(r.entries)
	}

	// binary search on the logical order of the entries
	s := 0
	e := n - 1
	found := 0
	for s <= e {
		m := (s + e) / 2
		if r.entries[r.index(m)].Frame <= frame {
			found = m
			s = m + 1
		} else {
			e = m - 1
		}
	}

	return r.index(found)
}

// plumb the entry into the machine and run the emulation until the
// requested frame is reached. must be called inside a pause window and
// with the critical section held.
func (r *Rewind) plumb(idx int, frame int) (int, error) {
	s := r.entries[idx]
	mc := r.emu.Machine()

	err := snapshot.Load(bytes.NewReader(s.data), mc.Components(), snapshot.Version)
	if err != nil {
		return mc.FrameCount(), curated.Errorf(RestoreError, err)
	}
	r.curr = idx

	// catch-up loop. the emulation goroutine is parked at its safe point so
	// the machine can be stepped here
	for mc.FrameCount() < frame {
		if err := mc.Step(); err != nil {
			return mc.FrameCount(), curated.Errorf(RestoreError, err)
		}
	}

	if !r.comparisonLocked {
		r.comparison = s
	}

	logger.Logf(logger.Allow, "rewind", "restored frame %d", mc.FrameCount())

	return mc.FrameCount(), nil
}

// GotoFrame returns the emulation to the requested frame. If the frame is
// outside of the history then the nearest available frame is used. Returns
// the frame that the machine is now in.
func (r *Rewind) GotoFrame(frame int) (int, error) {
	var reached int

	// the critical section is taken inside the pause window. the emulation
	// goroutine takes the critical section during the end of frame
	// processing, which happens before the safe point
	err := r.emu.WithPause(func() error {
		r.crit.Lock()
		defer r.crit.Unlock()

		if r.empty() {
			return curated.Errorf(NoHistory)
		}

		// clamp to the end of the history
		if l := r.entries[r.last()].Frame; frame > l {
			frame = l
		}

		idx := r.findFrameIndex(frame)

		// clamp to the start of the history
		if f := r.entries[idx].Frame; frame < f {
			frame = f
		}

		var err error
		reached, err = r.plumb(idx, frame)
		return err
	})

	return reached, err
}

// GotoLast returns the emulation to the most recent entry in the history.
func (r *Rewind) GotoLast() (int, error) {
	r.crit.Lock()
	if r.empty() {
		r.crit.Unlock()
		return 0, curated.Errorf(NoHistory)
	}
	frame := r.entries[r.last()].Frame
	r.crit.Unlock()

	return r.GotoFrame(frame)
}

// Rewind the emulation by the number of frames. A negative number moves the
// emulation forward, but never past the end of the history.
func (r *Rewind) Rewind(frames int) (int, error) {
	return r.GotoFrame(r.emu.Machine().FrameCount() - frames)
}
