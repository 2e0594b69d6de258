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

package synthetic

import (
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/limiter"
	"github.com/jetsetilly/gophernes/logger"
	"github.com/jetsetilly/gophernes/scheduler"
	"github.com/jetsetilly/gophernes/snapshot"
	"github.com/jetsetilly/gophernes/video"
)

// Error patterns.
const (
	Fault        = "synthetic: fault at frame %d"
	SinkError    = "synthetic: %v"
	BadOverclock = "synthetic: overclock must be between 0 and %d scanlines"
)

// MaxOverclock is the maximum number of extra scanlines.
const MaxOverclock = 1000

// the number of scanlines in a frame for each region
func scanlinesPerFrame(region limiter.Region) int {
	switch region {
	case limiter.PAL, limiter.Dendy:
		return 312
	}
	return 262
}

// FrameSink receives completed frames. It is implemented by video.Decoder.
type FrameSink interface {
	UpdateFrame(pixels []uint8, width int, height int, sb video.Sideband) error
}

// SampleSink receives audio samples. It is implemented by audio.Mixer.
type SampleSink interface {
	AddSamples(samples []int16)
}

// Machine is a synthetic implementation of scheduler.Machine.
type Machine struct {
	region limiter.Region

	frames  FrameSink
	samples SampleSink

	cpu *cpu
	ppu *ppu
	apu *apu

	variant scheduler.PictureVariant

	// the number of extra scanlines added to each frame and whether they are
	// currently disabled
	overclock         int
	overclockDisabled bool

	// Step() returns an error at the start of this frame. zero means never
	failAt int
}

// NewMachine is the preferred method of initialisation for the Machine type.
// Either sink can be nil.
func NewMachine(region limiter.Region, frames FrameSink, samples SampleSink, sampleRate int) *Machine {
	m := &Machine{
		region:  region,
		frames:  frames,
		samples: samples,
		cpu:     &cpu{},
		ppu:     newPPU(scheduler.PictureStandard),
		apu:     newAPU(region, sampleRate),
	}
	return m
}

// SetOverclock sets the number of extra scanlines added to each frame.
func (m *Machine) SetOverclock(lines int) error {
	if lines < 0 || lines > MaxOverclock {
		return curated.Errorf(BadOverclock, MaxOverclock)
	}
	m.overclock = lines
	return nil
}

// FailAtFrame causes Step() to return an error at the start of the frame. A
// value of zero disables the fault.
func (m *Machine) FailAtFrame(frame int) {
	m.failAt = frame
}

// LoadPCM replaces the tone with audio from the reader. The format is
// detected from the filename extension. WAV and MP3 files are supported.
func (m *Machine) LoadPCM(filename string, r io.ReadSeeker) error {
	pcm, err := decodePCM(filename, r)
	if err != nil {
		return curated.Errorf(SinkError, err)
	}
	m.apu.pcm = pcm
	return nil
}

func (m *Machine) scanlines() int {
	n := scanlinesPerFrame(m.region)
	if !m.overclockDisabled {
		n += m.overclock
	}
	return n
}

// Step implements the scheduler.Machine interface. One scanline is executed.
func (m *Machine) Step() error {
	frame := int(m.cpu.frame.Load())
	if m.failAt > 0 && frame >= m.failAt {
		return curated.Errorf(Fault, frame)
	}

	m.cpu.instructions++

	if m.cpu.line < visibleScanlines {
		m.ppu.scanline(m.cpu.line)
	}
	m.apu.scanline(m.scanlines())

	m.cpu.line++
	if m.cpu.line < m.scanlines() {
		return nil
	}

	// end of frame
	m.cpu.line = 0
	m.ppu.scroll++

	if m.frames != nil {
		err := m.frames.UpdateFrame(m.ppu.pixels, m.ppu.width, m.ppu.height, video.Sideband{FrameNumber: frame})
		if err != nil {
			return curated.Errorf(SinkError, err)
		}
	}
	if m.samples != nil {
		m.samples.AddSamples(m.apu.buffer)
	}
	m.apu.buffer = m.apu.buffer[:0]

	// the frame counter changes last. the scheduler treats the change as the
	// end of the frame
	m.cpu.frame.Add(1)

	return nil
}

// FrameCount implements the scheduler.Machine interface.
func (m *Machine) FrameCount() int {
	return int(m.cpu.frame.Load())
}

// Instructions returns the number of instructions executed since the last
// hard reset.
func (m *Machine) Instructions() int64 {
	return m.cpu.instructions
}

// Reset implements the scheduler.Machine interface. A soft reset returns to
// the start of the frame. A hard reset also clears the frame count, the
// picture and the audio.
func (m *Machine) Reset(soft bool) error {
	m.cpu.line = 0
	if soft {
		logger.Log(logger.Allow, "synthetic", "soft reset")
		return nil
	}

	m.cpu.instructions = 0
	m.cpu.frame.Store(0)
	m.ppu.reset()
	m.apu.reset()
	logger.Log(logger.Allow, "synthetic", "hard reset")

	return nil
}

// Region implements the scheduler.Machine interface.
func (m *Machine) Region() limiter.Region {
	return m.region
}

// Components implements the scheduler.Machine interface.
func (m *Machine) Components() snapshot.Components {
	return snapshot.Components{
		CPU: m.cpu,
		PPU: m.ppu,
		APU: m.apu,
	}
}

// SetOverclockDisabled implements the scheduler.Overclocker interface.
func (m *Machine) SetOverclockDisabled(disabled bool) {
	m.overclockDisabled = disabled
}

// PictureVariant implements the scheduler.PictureSwapper interface.
func (m *Machine) PictureVariant() scheduler.PictureVariant {
	return m.variant
}

// SetPictureVariant implements the scheduler.PictureSwapper interface. The new
// picture unit starts with no state.
func (m *Machine) SetPictureVariant(v scheduler.PictureVariant) error {
	switch v {
	case scheduler.PictureStandard, scheduler.PictureHD, scheduler.PictureNSF:
	default:
		return curated.Errorf("synthetic: unsupported picture variant (%v)", v)
	}
	m.variant = v
	m.ppu = newPPU(v)
	return nil
}

// the processor state
type cpu struct {
	instructions int64
	line         int

	// read by goroutines other than the emulation goroutine
	frame atomic.Int64
}

// SaveSnapshot implements the snapshot.Snapshotter interface.
func (c *cpu) SaveSnapshot(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, [3]int64{c.instructions, int64(c.line), c.frame.Load()})
}

// LoadSnapshot implements the snapshot.Snapshotter interface.
func (c *cpu) LoadSnapshot(r io.Reader, version uint32) error {
	var v [3]int64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return err
	}
	c.instructions = v[0]
	c.line = int(v[1])
	c.frame.Store(v[2])
	return nil
}
