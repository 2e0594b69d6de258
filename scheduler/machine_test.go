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
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/notifications"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/snapshot"
)

var errMachine = errors.New("machine fault")

// machine is a minimal implementation of scheduler.Machine. the value of
// instructions is the machine's state
type machine struct {
	perFrame int64

	instructions atomic.Int64
	frame        atomic.Int64

	// set while Step() is executing and while a test is inside a Pause()
	// window. if both are ever true at the same time then violation is set
	inStep    atomic.Bool
	inWindow  atomic.Bool
	violation atomic.Bool

	// fail or panic when the instruction count reaches the value
	failAt  int64
	panicAt int64

	resets    atomic.Int32
	overclock atomic.Int32

	variant scheduler.PictureVariant
	ppu     *picture
}

func newMachine(perFrame int64) *machine {
	return &machine{
		perFrame: perFrame,
		ppu:      &picture{},
	}
}

func (m *machine) Step() error {
	m.inStep.Store(true)
	defer m.inStep.Store(false)

	if m.inWindow.Load() {
		m.violation.Store(true)
	}

	n := m.instructions.Add(1)
	if m.failAt > 0 && n >= m.failAt {
		return errMachine
	}
	if m.panicAt > 0 && n >= m.panicAt {
		panic("machine panic")
	}

	if n%m.perFrame == 0 {
		m.frame.Add(1)
	}
	return nil
}

func (m *machine) FrameCount() int {
	return int(m.frame.Load())
}

func (m *machine) Reset(soft bool) error {
	m.resets.Add(1)
	m.instructions.Store(0)
	m.frame.Store(0)
	return nil
}

func (m *machine) Region() limiter.Region {
	return limiter.PAL
}

func (m *machine) Components() snapshot.Components {
	return snapshot.Components{
		CPU: (*cpu)(m),
		PPU: m.ppu,
	}
}

// atFrameBoundary returns true if the machine is between frames
func (m *machine) atFrameBoundary() bool {
	return !m.inStep.Load() && m.instructions.Load()%m.perFrame == 0
}

func (m *machine) SetOverclockDisabled(disabled bool) {
	if disabled {
		m.overclock.Store(1)
	} else {
		m.overclock.Store(2)
	}
}

func (m *machine) PictureVariant() scheduler.PictureVariant {
	return m.variant
}

func (m *machine) SetPictureVariant(v scheduler.PictureVariant) error {
	m.variant = v
	m.ppu = &picture{}
	return nil
}

// the processor component saves the instruction and frame counts
type cpu machine

func (c *cpu) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, [2]int64{c.instructions.Load(), c.frame.Load()})
}

func (c *cpu) LoadSnapshot(r io.Reader, version uint32) error {
	var v [2]int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return err
	}
	c.instructions.Store(v[0])
	c.frame.Store(v[1])
	return nil
}

// the picture unit has a single value of state
type picture struct {
	value uint32
}

func (p *picture) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, p.value)
}

func (p *picture) LoadSnapshot(r io.Reader, version uint32) error {
	return binary.Read(r, binary.LittleEndian, &p.value)
}

// mixer counts calls
type mixer struct {
	frames atomic.Int64
	stops  atomic.Int64
}

func (mx *mixer) ProcessEndOfFrame() {
	mx.frames.Add(1)
}

func (mx *mixer) StopAudio() {
	mx.stops.Add(1)
}

// powerSave records the most recent call
type powerSave struct {
	inhibited atomic.Bool
	allows    atomic.Int64
}

func (ps *powerSave) Inhibit() {
	ps.inhibited.Store(true)
}

func (ps *powerSave) Allow() {
	ps.inhibited.Store(false)
	ps.allows.Add(1)
}

// persister counts calls
type persister struct {
	calls atomic.Int64
}

func (p *persister) PersistSession(session uuid.UUID, c snapshot.Components) error {
	p.calls.Add(1)
	return nil
}

// attachment counts calls to EndSession()
type attachment struct {
	ended atomic.Int64
}

func (a *attachment) EndSession() {
	a.ended.Add(1)
}

// notices records all notifications
type notices struct {
	crit sync.Mutex
	list []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice, detail string) error {
	n.crit.Lock()
	defer n.crit.Unlock()
	n.list = append(n.list, notice)
	return nil
}

func (n *notices) has(notice notifications.Notice) bool {
	n.crit.Lock()
	defer n.crit.Unlock()
	for _, s := range n.list {
		if s == notice {
			return true
		}
	}
	return false
}
