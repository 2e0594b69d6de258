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

// Package rewind keeps a history of machine states. A snapshot of the machine
// is taken at the end of every Nth frame and stored in a circular array. The
// emulation can be returned to any frame in the history.
//
// The Rewind type implements the scheduler.Rewinder interface.
package rewind

import (
	"bytes"
	"sync"

	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/settings"
	"github.com/jetsetilly/gophernes/snapshot"
)

// Emulation is the interface to the emulation required by the rewind package.
// It is implemented by the scheduler.Scheduler type.
type Emulation interface {
	// the function is run while the emulation is parked at its safe point
	WithPause(f func() error) error
	Machine() scheduler.Machine
}

// State is a snapshot of the machine at the end of a frame.
type State struct {
	Frame int

	// the serialised machine components
	data []byte
}

// Size returns the number of bytes used by the snapshot.
func (s *State) Size() int {
	return len(s.data)
}

// one entry in the circular array is always unused so that a full array can be
// distinguished from an empty one
const overhead = 1

// Rewind contains a history of machine states for the emulation.
type Rewind struct {
	emu   Emulation
	prefs *settings.Preferences

	crit sync.Mutex

	// circular array of snapshotted entries
	entries []*State
	start   int
	end     int

	// the most recent entry. new entries are appended after this one, so
	// entries between curr and end are forgotten if the emulation continues
	// after a rewind
	curr int

	// pointer to the comparison point
	comparison       *State
	comparisonLocked bool

	timeline Timeline

	// reused buffer for serialising the machine
	buf bytes.Buffer
}

// NewRewind is the preferred method of initialisation for the Rewind type.
func NewRewind(emu Emulation, prefs *settings.Preferences) *Rewind {
	r := &Rewind{
		emu:      emu,
		prefs:    prefs,
		timeline: newTimeline(),
	}
	r.allocate(r.maxEntries())
	return r
}

func (r *Rewind) maxEntries() int {
	n := r.prefs.RewindMaxEntries.Get().(int)
	if n < 1 {
		n = 1
	}
	return n + overhead
}

func (r *Rewind) frequency() int {
	f := r.prefs.RewindFrequency.Get().(int)
	if f < 1 {
		f = 1
	}
	return f
}

// allocate clears the history. must be called with the critical section
// held or before the Rewind instance is shared.
func (r *Rewind) allocate(n int) {
	r.entries = make([]*State, n)
	r.start = 0
	r.end = 0
	r.curr = n - 1
	r.comparison = nil
	r.timeline = newTimeline()
}

func (r *Rewind) empty() bool {
	return r.start == r.end
}

// last returns the index of the most recent entry.
func (r *Rewind) last() int {
	e := r.end - 1
	if e < 0 {
		e += len(r.entries)
	}
	return e
}

// snapshot the machine. the emulation must not be running.
func (r *Rewind) snapshot(frame int, c snapshot.Components) (*State, error) {
	r.buf.Reset()
	if err := snapshot.Save(&r.buf, c); err != nil {
		return nil, err
	}
	return &State{
		Frame: frame,
		data:  bytes.Clone(r.buf.Bytes()),
	}, nil
}

// ProcessEndOfFrame implements the scheduler.Rewinder interface.
func (r *Rewind) ProcessEndOfFrame(frame int, c snapshot.Components) {
	r.crit.Lock()
	defer r.crit.Unlock()

	// a change to the max entries preference clears the history
	if n := r.maxEntries(); n != len(r.entries) {
		r.allocate(n)
	}

	r.timeline.add(frame)

	// the first entry is always taken. after that only every Nth frame
	if !r.empty() && frame%r.frequency() != 0 {
		return
	}

	s, err := r.snapshot(frame, c)
	if err != nil {
		logger.Logf(logger.Allow, "rewind", "snapshot failed: %v", err)
		return
	}
	r.append(s)
}

// EndSession implements the scheduler.Rewinder interface. The history is
// discarded.
func (r *Rewind) EndSession() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.allocate(r.maxEntries())
}

func (r *Rewind) append(s *State) {
	// append at current position
	e := r.curr + 1
	if e >= len(r.entries) {
		e = 0
	}

	// update entry
	r.entries[e] = s

	// new position is the update point
	r.curr = e

	// next update point is recent update point plus one
	r.end = r.curr + 1
	if r.end >= len(r.entries) {
		r.end = 0
	}

	// push start index along
	if r.end == r.start {
		r.start++
		if r.start >= len(r.entries) {
			r.start = 0
		}
	}
}

// Frames of the current state of the rewind system.
type Frames struct {
	Start   int
	End     int
	Current int
}

// GetFrames returns the range of frames in the history and the frame of the
// entry most recently added or rewound to.
func (r *Rewind) GetFrames() (Frames, bool) {
	r.crit.Lock()
	defer r.crit.Unlock()

	if r.empty() {
		return Frames{}, false
	}

	return Frames{
		Start:   r.entries[r.start].Frame,
		End:     r.entries[r.last()].Frame,
		Current: r.entries[r.curr].Frame,
	}, true
}

// NumEntries returns the number of entries in the history.
func (r *Rewind) NumEntries() int {
	r.crit.Lock()
	defer r.crit.Unlock()

	n := r.end - r.start
	if n < 0 {
		n += len(r.entries)
	}
	return n
}
